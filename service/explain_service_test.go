package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplain_MissingInput(t *testing.T) {
	svc := NewExplainService()

	_, err := svc.Explain(context.Background(), "", "Coffee")
	assert.ErrorIs(t, err, ErrMissingExplainInput)

	_, err = svc.Explain(context.Background(), "09011100", "  ")
	assert.ErrorIs(t, err, ErrMissingExplainInput)
}

func TestExplain_ModelUnavailable(t *testing.T) {
	svc := NewExplainService()

	_, err := svc.Explain(context.Background(), "09011100", "Coffee")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestAssistKeywords_MissingQuery(t *testing.T) {
	svc := NewAssistService()

	_, err := svc.Keywords(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrMissingQuery)
}

func TestAssistKeywords_ModelUnavailable(t *testing.T) {
	svc := NewAssistService()

	_, err := svc.Keywords(context.Background(), "rubber tires")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}
