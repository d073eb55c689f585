package quizgen

import (
	"fmt"

	"wikiquiz/internal/domain"
)

// SystemInstruction fixes the reply contract of the quiz model.
const SystemInstruction = `You are an expert quiz generator. Your task is to create an engaging and educational quiz based on Wikipedia article content.

Generate a quiz that:
1. Has 5-10 questions (preferably 7-8 questions)
2. Covers key concepts, facts, and important information from the article
3. Includes exactly 4 multiple-choice options for each question
4. Provides clear explanations for correct answers
5. Identifies key entities (people, places, concepts, etc.)
6. Lists related topics

Make sure the questions are:
- Clear and unambiguous
- Educational and informative
- Spread across different aspects of the article
- Ranging from basic to moderate difficulty
- Not too obscure or trivial

Formatting rules:
- "correct_answer" MUST be copied exactly from one of the four options.
- No two options of a question may be identical.
- Respond with ONLY the raw JSON object, without a markdown code block.

Return the response in the following JSON format:
{
    "title": "Quiz title based on the article",
    "summary": "Brief 2-3 sentence summary of the article",
    "questions": [
        {
            "question": "Question text",
            "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
            "correct_answer": "Option 1",
            "explanation": "Explanation of why this answer is correct"
        }
    ],
    "key_entities": ["Entity 1", "Entity 2"],
    "related_topics": ["Topic 1", "Topic 2"]
}`

const articlePromptFormat = `Generate a quiz based on the following Wikipedia article.

Title: %s

%s

Remember to:
- Create 5-10 well-structured questions
- Ensure all questions have exactly 4 options
- Make sure the correct_answer matches one of the options exactly
- Provide meaningful explanations
- Extract key entities and related topics`

// BuildArticlePrompt embeds the article title and body verbatim.
func BuildArticlePrompt(article *domain.ArticleText) string {
	return fmt.Sprintf(articlePromptFormat, article.Title, article.Body)
}
