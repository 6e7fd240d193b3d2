// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package twilio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/numbersmith/number-inventory-service/pkg/httpclient"
)

const apiVersion = "2010-04-01"

var typeSegments = map[model.NumberType]string{
	model.NumberTypeLocal:    "Local",
	model.NumberTypeMobile:   "Mobile",
	model.NumberTypeTollFree: "TollFree",
}

// Client represents a provider REST API client
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// AvailableNumbers fetches one page of numbers matching criteria.
// pageURI is the next_page_uri of the previous page, nil for the first page.
func (c *Client) AvailableNumbers(ctx context.Context, criteria model.SearchCriteria, pageSize int, pageURI *string) (*AvailableNumbersPage, error) {
	target, err := c.searchURL(criteria, pageSize, pageURI)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(ctx, httpclient.Request{
		Method:        http.MethodGet,
		URL:           target,
		Headers:       c.headers(),
		SingleAttempt: true,
	})
	if err != nil {
		return nil, mapError(ctx, "search available numbers", err)
	}

	var page availableNumbersResponse
	decoder := json.NewDecoder(bytes.NewReader(resp.Body))
	decoder.UseNumber()
	if err := decoder.Decode(&page); err != nil {
		return nil, errors.NewUnexpected("failed to decode available numbers response", err)
	}
	if page.AvailablePhoneNumbers == nil {
		return nil, errors.NewUnexpected("malformed available numbers response: missing available_phone_numbers")
	}

	return &AvailableNumbersPage{
		Numbers:     *page.AvailablePhoneNumbers,
		NextPageURI: page.NextPageURI,
	}, nil
}

// PurchaseNumber buys phoneNumber and returns the SID of the created resource
func (c *Client) PurchaseNumber(ctx context.Context, phoneNumber string) (string, error) {
	form := url.Values{}
	form.Set("PhoneNumber", phoneNumber)

	headers := c.headers()
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	resp, err := c.httpClient.Do(ctx, httpclient.Request{
		Method:        http.MethodPost,
		URL:           fmt.Sprintf("%s/%s/Accounts/%s/IncomingPhoneNumbers.json", c.config.BaseURL, apiVersion, url.PathEscape(c.config.AccountSID)),
		Headers:       headers,
		Body:          strings.NewReader(form.Encode()),
		SingleAttempt: true,
	})
	if err != nil {
		return "", mapError(ctx, "purchase number", err)
	}

	var created incomingNumberResponse
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return "", errors.NewUnexpected("failed to decode purchase response", err)
	}
	if created.SID == "" {
		return "", errors.NewUnexpected("malformed purchase response: missing sid")
	}

	return created.SID, nil
}

// IsReady checks if the provider API is reachable with the configured credentials
func (c *Client) IsReady(ctx context.Context) error {
	resp, err := c.httpClient.Request(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s/Accounts/%s.json", c.config.BaseURL, apiVersion, url.PathEscape(c.config.AccountSID)),
		nil, c.headers())
	if err != nil {
		return errors.NewServiceUnavailable("provider API is not reachable", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewServiceUnavailable("provider API is not ready", fmt.Errorf("status code: %d", resp.StatusCode))
	}

	return nil
}

func (c *Client) searchURL(criteria model.SearchCriteria, pageSize int, pageURI *string) (string, error) {
	if pageURI != nil && *pageURI != "" {
		return c.resolvePageURI(*pageURI)
	}

	segment, ok := typeSegments[criteria.Type]
	if !ok {
		return "", errors.NewValidation(fmt.Sprintf("unknown number type %q", criteria.Type))
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s/Accounts/%s/AvailablePhoneNumbers/%s/%s.json",
		c.config.BaseURL, apiVersion, url.PathEscape(c.config.AccountSID), url.PathEscape(criteria.Country), segment))
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	q.Set("PageSize", strconv.Itoa(pageSize))
	if criteria.Capabilities.Has(model.CapabilityVoice) {
		q.Set("VoiceEnabled", "true")
	}
	if criteria.Capabilities.Has(model.CapabilitySMS) {
		q.Set("SmsEnabled", "true")
	}
	if criteria.Capabilities.Has(model.CapabilityMMS) {
		q.Set("MmsEnabled", "true")
	}
	if criteria.Pattern != "" {
		q.Set("Contains", criteria.Pattern)
	}
	// An area code already pins the locality.
	if criteria.AreaCode != "" {
		q.Set("AreaCode", criteria.AreaCode)
	} else if criteria.Locality != "" {
		q.Set("InLocality", criteria.Locality)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// resolvePageURI turns a next_page_uri into an absolute URL on the API host.
func (c *Client) resolvePageURI(pageURI string) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	ref, err := url.Parse(pageURI)
	if err != nil {
		return "", errors.NewValidation("invalid page token", err)
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host {
		return "", errors.NewValidation("page token points to a foreign host")
	}
	return resolved.String(), nil
}

func (c *Client) headers() map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte(c.config.AccountSID + ":" + c.config.AuthToken))
	return map[string]string{
		"Authorization": "Basic " + credentials,
	}
}

// mapError converts transport failures into error kinds. Only the caller's own
// cancellation stays unclassified; a client timeout is a network failure.
func mapError(ctx context.Context, operation string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var statusErr *httpclient.StatusError
	if !stderrors.As(err, &statusErr) {
		if httpclient.IsNetworkError(err) {
			return errors.NewServiceUnavailable(operation+": network failure", err)
		}
		return errors.NewUnexpected(operation+": request failed", err)
	}

	message := providerMessage(statusErr)
	switch {
	case statusErr.StatusCode == http.StatusTooManyRequests:
		return errors.NewRateLimited(operation+": rate limited", parseRetryAfter(statusErr.Headers.Get("Retry-After"), time.Now()), err)
	case statusErr.StatusCode >= http.StatusInternalServerError:
		return errors.NewServiceUnavailable(operation+": provider unavailable", err)
	case statusErr.StatusCode == http.StatusUnauthorized, statusErr.StatusCode == http.StatusForbidden:
		return errors.NewUnexpected(operation + ": provider rejected the credentials")
	case statusErr.StatusCode == http.StatusNotFound:
		return errors.NewValidation(operation + ": " + message)
	case statusErr.StatusCode == http.StatusBadRequest, statusErr.StatusCode == http.StatusUnprocessableEntity:
		return errors.NewValidation(operation + ": " + message)
	default:
		return errors.NewUnexpected(operation+": unexpected status", err)
	}
}

func providerMessage(statusErr *httpclient.StatusError) string {
	var body errorResponse
	if err := json.Unmarshal([]byte(statusErr.Message), &body); err == nil && body.Message != "" {
		if body.Code != 0 {
			return fmt.Sprintf("%s (code %d)", body.Message, body.Code)
		}
		return body.Message
	}
	return http.StatusText(statusErr.StatusCode)
}

// parseRetryAfter accepts delta seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// NewClient creates a new provider API client
func NewClient(config Config) *Client {
	httpConfig := httpclient.Config{
		Timeout:      config.Timeout,
		MaxRetries:   config.MaxRetries,
		RetryDelay:   config.RetryDelay,
		RetryBackoff: true,
		UserAgent:    constants.ServiceName,
	}

	return &Client{
		config:     config,
		httpClient: httpclient.NewClient(httpConfig),
	}
}
