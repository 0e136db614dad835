// Package teamtailor is a typed client for the Teamtailor JSON:API. Response
// envelopes are schema-checked before decoding; all lookups return
// ErrNotFound for a missing resource so callers can distinguish a lookup
// miss from an operation failure.
package teamtailor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/metrics"
	"github.com/Thread-Recruitment/thread-recruitment-integration/internal/common/validation"
)

const (
	defaultBaseURL = "https://api.teamtailor.com/v1"
	apiVersion     = "20161108"
	contentType    = "application/vnd.api+json"
)

// ErrNotFound is returned when a looked-up resource does not exist in the ATS.
var ErrNotFound = errors.New("teamtailor: resource not found")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests and EU/US region splits).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload interface{}) ([]byte, int, error) {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token token="+c.apiKey)
	req.Header.Set("X-Api-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ATSRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ATSRequestErrors.WithLabelValues(operation).Inc()
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ATSRequestErrors.WithLabelValues(operation).Inc()
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.ATSRequestErrors.WithLabelValues(operation).Inc()
		if resp.StatusCode == http.StatusNotFound {
			return nil, resp.StatusCode, ErrNotFound
		}
		return nil, resp.StatusCode, fmt.Errorf("teamtailor api error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, resp.StatusCode, nil
}

func (c *Client) getSingle(ctx context.Context, operation, method, path string, payload interface{}) (*resource, error) {
	body, _, err := c.do(ctx, operation, method, path, payload)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateEnvelope(body, validation.SingleResourceSchema); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	var envelope singleResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &envelope.Data, nil
}

func (c *Client) getList(ctx context.Context, operation, path string) ([]resource, error) {
	body, _, err := c.do(ctx, operation, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateEnvelope(body, validation.ListResourceSchema); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	var envelope listResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return envelope.Data, nil
}

// CreateCandidate creates a candidate with merge-by-email semantics: when a
// candidate with the same email exists the ATS merges into it instead of
// creating a duplicate.
func (c *Client) CreateCandidate(ctx context.Context, input CandidateInput) (*Candidate, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "candidates",
			"attributes": map[string]interface{}{
				"first-name": input.FirstName,
				"last-name":  input.LastName,
				"email":      input.Email,
				"phone":      input.Phone,
				"tags":       input.Tags,
				"merge":      true,
			},
		},
	}

	res, err := c.getSingle(ctx, "create_candidate", http.MethodPost, "/candidates", payload)
	if err != nil {
		return nil, err
	}

	var attrs struct {
		FirstName string   `json:"first-name"`
		LastName  string   `json:"last-name"`
		Email     string   `json:"email"`
		Phone     string   `json:"phone"`
		Tags      []string `json:"tags"`
	}
	if len(res.Attributes) > 0 {
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal candidate attributes: %w", err)
		}
	}

	return &Candidate{
		ID:        res.ID,
		FirstName: attrs.FirstName,
		LastName:  attrs.LastName,
		Email:     attrs.Email,
		Phone:     attrs.Phone,
		Tags:      attrs.Tags,
	}, nil
}

func (c *Client) DeleteCandidate(ctx context.Context, candidateID string) error {
	_, _, err := c.do(ctx, "delete_candidate", http.MethodDelete, "/candidates/"+candidateID, nil)
	return err
}

// ListJobApplications returns the candidate's existing applications with the
// job each one belongs to.
func (c *Client) ListJobApplications(ctx context.Context, candidateID string) ([]JobApplication, error) {
	path := fmt.Sprintf("/candidates/%s/job-applications", candidateID)
	resources, err := c.getList(ctx, "list_job_applications", path)
	if err != nil {
		return nil, err
	}

	applications := make([]JobApplication, 0, len(resources))
	for _, res := range resources {
		applications = append(applications, JobApplication{
			ID:    res.ID,
			JobID: res.relatedID("job"),
		})
	}
	return applications, nil
}

func (c *Client) CreateJobApplication(ctx context.Context, candidateID, jobID string) (*JobApplication, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "job-applications",
			"relationships": map[string]interface{}{
				"candidate": map[string]interface{}{
					"data": resourceIdentifier{ID: candidateID, Type: "candidates"},
				},
				"job": map[string]interface{}{
					"data": resourceIdentifier{ID: jobID, Type: "jobs"},
				},
			},
		},
	}

	res, err := c.getSingle(ctx, "create_job_application", http.MethodPost, "/job-applications", payload)
	if err != nil {
		return nil, err
	}
	return &JobApplication{ID: res.ID, JobID: jobID}, nil
}

// GetQuestion resolves a question's declared type. Returns ErrNotFound when
// the question does not exist.
func (c *Client) GetQuestion(ctx context.Context, questionID string) (*Question, error) {
	res, err := c.getSingle(ctx, "get_question", http.MethodGet, "/questions/"+questionID, nil)
	if err != nil {
		return nil, err
	}

	var attrs struct {
		Title        string `json:"title"`
		QuestionType string `json:"question-type"`
	}
	if len(res.Attributes) > 0 {
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal question attributes: %w", err)
		}
	}

	return &Question{
		ID:    res.ID,
		Title: attrs.Title,
		Type:  QuestionType(attrs.QuestionType),
	}, nil
}

func (c *Client) ListAnswers(ctx context.Context, candidateID string) ([]Answer, error) {
	path := fmt.Sprintf("/candidates/%s/answers", candidateID)
	resources, err := c.getList(ctx, "list_answers", path)
	if err != nil {
		return nil, err
	}

	answers := make([]Answer, 0, len(resources))
	for _, res := range resources {
		answers = append(answers, Answer{
			ID:         res.ID,
			QuestionID: res.relatedID("question"),
		})
	}
	return answers, nil
}

func (c *Client) CreateAnswer(ctx context.Context, candidateID, questionID string, value AnswerValue) (*Answer, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type":       "answers",
			"attributes": value,
			"relationships": map[string]interface{}{
				"candidate": map[string]interface{}{
					"data": resourceIdentifier{ID: candidateID, Type: "candidates"},
				},
				"question": map[string]interface{}{
					"data": resourceIdentifier{ID: questionID, Type: "questions"},
				},
			},
		},
	}

	res, err := c.getSingle(ctx, "create_answer", http.MethodPost, "/answers", payload)
	if err != nil {
		return nil, err
	}
	return &Answer{ID: res.ID, QuestionID: questionID}, nil
}

func (c *Client) UpdateAnswer(ctx context.Context, answerID string, value AnswerValue) (*Answer, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"id":         answerID,
			"type":       "answers",
			"attributes": value,
		},
	}

	res, err := c.getSingle(ctx, "update_answer", http.MethodPatch, "/answers/"+answerID, payload)
	if err != nil {
		return nil, err
	}
	return &Answer{ID: res.ID, QuestionID: res.relatedID("question")}, nil
}

// GetCustomFieldByAPIName resolves a custom field definition by its
// human-facing api-name. Returns ErrNotFound when no field matches.
func (c *Client) GetCustomFieldByAPIName(ctx context.Context, apiName string) (*CustomField, error) {
	resources, err := c.getList(ctx, "list_custom_fields", "/custom-fields")
	if err != nil {
		return nil, err
	}

	for _, res := range resources {
		var attrs struct {
			APIName   string `json:"api-name"`
			Name      string `json:"name"`
			FieldType string `json:"field-type"`
		}
		if len(res.Attributes) > 0 {
			if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal custom field attributes: %w", err)
			}
		}
		if attrs.APIName == apiName {
			return &CustomField{
				ID:        res.ID,
				APIName:   attrs.APIName,
				Name:      attrs.Name,
				FieldType: attrs.FieldType,
			}, nil
		}
	}

	return nil, ErrNotFound
}

func (c *Client) ListCustomFieldValues(ctx context.Context, candidateID string) ([]CustomFieldValue, error) {
	path := fmt.Sprintf("/candidates/%s/custom-field-values", candidateID)
	resources, err := c.getList(ctx, "list_custom_field_values", path)
	if err != nil {
		return nil, err
	}

	values := make([]CustomFieldValue, 0, len(resources))
	for _, res := range resources {
		values = append(values, CustomFieldValue{
			ID:      res.ID,
			FieldID: res.relatedID("custom-field"),
		})
	}
	return values, nil
}

func (c *Client) CreateCustomFieldValue(ctx context.Context, candidateID, fieldID, value string) (*CustomFieldValue, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "custom-field-values",
			"attributes": map[string]interface{}{
				"value": value,
			},
			"relationships": map[string]interface{}{
				"custom-field": map[string]interface{}{
					"data": resourceIdentifier{ID: fieldID, Type: "custom-fields"},
				},
				"owner": map[string]interface{}{
					"data": resourceIdentifier{ID: candidateID, Type: "candidates"},
				},
			},
		},
	}

	res, err := c.getSingle(ctx, "create_custom_field_value", http.MethodPost, "/custom-field-values", payload)
	if err != nil {
		return nil, err
	}
	return &CustomFieldValue{ID: res.ID, FieldID: fieldID}, nil
}

func (c *Client) UpdateCustomFieldValue(ctx context.Context, valueID, value string) (*CustomFieldValue, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"id":   valueID,
			"type": "custom-field-values",
			"attributes": map[string]interface{}{
				"value": value,
			},
		},
	}

	res, err := c.getSingle(ctx, "update_custom_field_value", http.MethodPatch, "/custom-field-values/"+valueID, payload)
	if err != nil {
		return nil, err
	}
	return &CustomFieldValue{ID: res.ID, FieldID: res.relatedID("custom-field")}, nil
}

// CreateNote appends a note to the candidate's timeline. Notes are
// append-only; there is no update path.
func (c *Client) CreateNote(ctx context.Context, candidateID, userID, text string) (*Note, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "notes",
			"attributes": map[string]interface{}{
				"note": text,
			},
			"relationships": map[string]interface{}{
				"candidate": map[string]interface{}{
					"data": resourceIdentifier{ID: candidateID, Type: "candidates"},
				},
				"user": map[string]interface{}{
					"data": resourceIdentifier{ID: userID, Type: "users"},
				},
			},
		},
	}

	res, err := c.getSingle(ctx, "create_note", http.MethodPost, "/notes", payload)
	if err != nil {
		return nil, err
	}
	return &Note{ID: res.ID}, nil
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	res, err := c.getSingle(ctx, "get_job", http.MethodGet, "/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	var attrs struct {
		Title string `json:"title"`
	}
	if len(res.Attributes) > 0 {
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job attributes: %w", err)
		}
	}

	return &Job{ID: res.ID, Title: attrs.Title}, nil
}
