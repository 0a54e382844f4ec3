package shared

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answerBody struct {
	Answer *string `json:"answer" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errIs       error
		errContains string
	}{
		{name: "valid json", body: `{"answer": "42"}`},
		{name: "invalid json", body: `{"answer": "42",}`, wantErr: true, errContains: "invalid character"},
		{name: "empty body", body: "", wantErr: true, errIs: ErrEmptyBody},
		{name: "unknown field", body: `{"answer": "1", "extra": true}`, wantErr: true, errContains: "unknown field"},
		{name: "trailing data", body: `{"answer": "1"} {}`, wantErr: true, errContains: "unexpected data"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.body))
			var target answerBody

			err := DecodeJSON(req, &target)

			if !tc.wantErr {
				require.NoError(t, err)
				require.NotNil(t, target.Answer)
				assert.Equal(t, "42", *target.Answer)
				return
			}
			require.Error(t, err)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			}
			if tc.errContains != "" {
				assert.Contains(t, err.Error(), tc.errContains)
			}
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})
	var target answerBody

	err := DecodeJSON(req, &target)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

type selfValidating struct {
	Name string
}

func (s *selfValidating) Validate() error {
	if s.Name == "invalid" {
		return errors.New("name is invalid")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	empty := ""

	assert.NoError(t, ValidateRequest(&answerBody{Answer: &empty}))

	err := ValidateRequest(&answerBody{})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "answer", verrs[0].Field())

	assert.NoError(t, ValidateRequest(&selfValidating{Name: "ok"}))
	assert.Error(t, ValidateRequest(&selfValidating{Name: "invalid"}))
}
