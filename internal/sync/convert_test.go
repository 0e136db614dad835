package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/logger"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/teamtailor"
)

func TestIsTruthy(t *testing.T) {
	for _, raw := range []string{"yes", "Yes", "YES", "true", "True", "1", "on", " yes "} {
		assert.True(t, IsTruthy(raw), "expected truthy: %q", raw)
	}
	for _, raw := range []string{"no", "false", "0", "off", "", "maybe", "ja"} {
		assert.False(t, IsTruthy(raw), "expected falsy: %q", raw)
	}
}

func TestConvertAnswer_Boolean(t *testing.T) {
	log := logger.NewNoOpLogger()

	value := ConvertAnswer("Yes", teamtailor.QuestionTypeBoolean, log)
	require.NotNil(t, value.Boolean)
	assert.True(t, *value.Boolean)
	assert.Nil(t, value.Text)

	value = ConvertAnswer("No", teamtailor.QuestionTypeBoolean, log)
	require.NotNil(t, value.Boolean)
	assert.False(t, *value.Boolean)
}

func TestConvertAnswer_Choice(t *testing.T) {
	log := logger.NewNoOpLogger()

	value := ConvertAnswer("123,456", teamtailor.QuestionTypeChoice, log)
	assert.Equal(t, []int{123, 456}, value.Choices)

	value = ConvertAnswer("789", teamtailor.QuestionTypeChoice, log)
	assert.Equal(t, []int{789}, value.Choices)

	value = ConvertAnswer("blue", teamtailor.QuestionTypeChoice, log)
	require.NotNil(t, value.Text)
	assert.Equal(t, "blue", *value.Text)
	assert.Empty(t, value.Choices)
}

func TestConvertAnswer_Numeric(t *testing.T) {
	log := logger.NewNoOpLogger()

	value := ConvertAnswer("7.5", teamtailor.QuestionTypeRange, log)
	require.NotNil(t, value.Range)
	assert.Equal(t, 7.5, *value.Range)

	value = ConvertAnswer("42", teamtailor.QuestionTypeNumber, log)
	require.NotNil(t, value.Range)
	assert.Equal(t, float64(42), *value.Range)

	value = ConvertAnswer("about seven", teamtailor.QuestionTypeRange, log)
	require.NotNil(t, value.Text)
	assert.Equal(t, "about seven", *value.Text)
	assert.Nil(t, value.Range)
}

func TestConvertAnswer_TextAndVideo(t *testing.T) {
	log := logger.NewNoOpLogger()

	for _, questionType := range []teamtailor.QuestionType{
		teamtailor.QuestionTypeText,
		teamtailor.QuestionTypeVideo,
		teamtailor.QuestionType("unknown"),
	} {
		value := ConvertAnswer("free text", questionType, log)
		require.NotNil(t, value.Text, "type %s", questionType)
		assert.Equal(t, "free text", *value.Text)
	}
}

func TestGuessAnswerValue(t *testing.T) {
	value := GuessAnswerValue("Yes")
	require.NotNil(t, value.Boolean)
	assert.True(t, *value.Boolean)

	value = GuessAnswerValue("false")
	require.NotNil(t, value.Boolean)
	assert.False(t, *value.Boolean)

	value = GuessAnswerValue("123,456")
	assert.Equal(t, []int{123, 456}, value.Choices)
}

// Without a declared question type a bare integer is ambiguous between a
// choice id and a numeric text answer; the heuristic keeps it as text.
func TestGuessAnswerValue_SingleIntegerStaysText(t *testing.T) {
	value := GuessAnswerValue("123")
	require.NotNil(t, value.Text)
	assert.Equal(t, "123", *value.Text)
	assert.Empty(t, value.Choices)
	assert.Nil(t, value.Boolean)
}

func TestConvertCustomFieldValue(t *testing.T) {
	assert.Equal(t, "true", ConvertCustomFieldValue("Yes", teamtailor.FieldTypeCheckbox))
	assert.Equal(t, "false", ConvertCustomFieldValue("no", teamtailor.FieldTypeCheckbox))

	assert.Equal(t, "45000", ConvertCustomFieldValue("45000", teamtailor.FieldTypeNumber))
	assert.Equal(t, "45000.5", ConvertCustomFieldValue(" 45000.50 ", teamtailor.FieldTypeNumber))
	assert.Equal(t, "not a number", ConvertCustomFieldValue("not a number", teamtailor.FieldTypeNumber))

	assert.Equal(t, "raw text", ConvertCustomFieldValue("raw text", teamtailor.FieldTypeText))
	assert.Equal(t, "2024-05-01", ConvertCustomFieldValue("2024-05-01", teamtailor.FieldTypeDate))
}
