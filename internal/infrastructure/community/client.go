package community

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPCommunityClient talks to the platform core's internal API: user
// directory, entitlement groups and the fraud blacklist. It implements
// domain.DirectoryPort, domain.GroupStorePort and domain.BlacklistPort.
type HTTPCommunityClient struct {
	Address string
}

func NewHTTPCommunityClient(address string) *HTTPCommunityClient {
	return &HTTPCommunityClient{Address: address}
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

type blacklistRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type emailResponse struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPCommunityClient) UserEmail(ctx context.Context, userID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/%s/email", c.Address, userID), nil)
	if err != nil {
		return "", err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", decodeError(body, response.StatusCode)
	}

	var resp emailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Email, nil
}

func (c *HTTPCommunityClient) AddMember(ctx context.Context, groupID, userID string) error {
	return c.post(ctx, fmt.Sprintf("%s/groups/%s/members", c.Address, groupID), memberRequest{UserID: userID})
}

func (c *HTTPCommunityClient) RemoveMember(ctx context.Context, groupID, userID string) error {
	return c.post(ctx, fmt.Sprintf("%s/groups/%s/members/remove", c.Address, groupID), memberRequest{UserID: userID})
}

func (c *HTTPCommunityClient) BlacklistUser(ctx context.Context, userID, reason string) error {
	return c.post(ctx, fmt.Sprintf("%s/blacklist", c.Address), blacklistRequest{UserID: userID, Reason: reason})
}

func (c *HTTPCommunityClient) post(ctx context.Context, url string, payload interface{}) error {
	requestBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return decodeError(body, response.StatusCode)
}

func decodeError(body []byte, statusCode int) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("community API returned status %d", statusCode)
	}
	return errors.New(errResp.Error)
}
