package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEnvelope_SingleResource(t *testing.T) {
	body := []byte(`{"data":{"id":"42","type":"candidates","attributes":{"email":"a@b.com"}}}`)
	assert.NoError(t, ValidateEnvelope(body, SingleResourceSchema))
}

func TestValidateEnvelope_SingleResourceMissingID(t *testing.T) {
	body := []byte(`{"data":{"type":"candidates"}}`)
	err := ValidateEnvelope(body, SingleResourceSchema)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "response validation failed")
}

func TestValidateEnvelope_ListResource(t *testing.T) {
	body := []byte(`{"data":[{"id":"1","type":"answers"},{"id":"2","type":"answers"}]}`)
	assert.NoError(t, ValidateEnvelope(body, ListResourceSchema))
}

func TestValidateEnvelope_ListRejectsObject(t *testing.T) {
	body := []byte(`{"data":{"id":"1","type":"answers"}}`)
	assert.Error(t, ValidateEnvelope(body, ListResourceSchema))
}

func TestValidateEnvelope_MissingData(t *testing.T) {
	body := []byte(`{"errors":[{"title":"Unauthorized"}]}`)
	assert.Error(t, ValidateEnvelope(body, SingleResourceSchema))
}

func TestValidateEnvelope_InvalidJSON(t *testing.T) {
	assert.Error(t, ValidateEnvelope([]byte(`{`), SingleResourceSchema))
}
