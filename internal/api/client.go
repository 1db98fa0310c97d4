// Package api contains thin clients for the price-comparison backend,
// one per REST resource. Each method performs exactly one HTTP call,
// checks the response status, decodes the JSON payload and validates its
// shape. There are no retries and no backoff: a failed call is reported
// to the caller and nothing else happens.
package api

import (
	"encoding/json"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

var boundaryValidator = validator.New()

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
}

// apiError converts a non-2xx response into *models.APIError, picking up
// the server-supplied message field when the body carries one.
func apiError(response *resty.Response) error {
	errorResponse := models.ErrorResponse{}
	// The error body is optional and not always JSON; a decode failure
	// just leaves the message empty.
	_ = json.Unmarshal(response.Body(), &errorResponse)

	return &models.APIError{
		StatusCode: response.StatusCode(),
		Message:    errorResponse.Message,
	}
}

func checkResponse(response *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if response.IsError() {
		return apiError(response)
	}

	return nil
}

func validateShape(payload any) error {
	if err := boundaryValidator.Struct(payload); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}

	return nil
}

func validateItems(items []models.Item) error {
	for _, item := range items {
		if err := validateShape(item); err != nil {
			return err
		}
	}

	return nil
}
