package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "wikiquiz"

	quizServiceName  = "quiz"
	recordObjectType = "record"
)

// GenerateCacheKey builds "wikiquiz:<service>:<type>:<id>". Extra params are
// joined by "_" into one trailing segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	parts := []string{GlobalKeyPrefix, serviceName, objectType, identifier}
	if len(paramsKey) > 0 {
		parts = append(parts, strings.Join(paramsKey, "_"))
	}
	return strings.Join(parts, ":")
}

// QuizRecordKey is the key a stored quiz record is cached under.
func QuizRecordKey(id int64) string {
	return GenerateCacheKey(quizServiceName, recordObjectType, strconv.FormatInt(id, 10))
}
