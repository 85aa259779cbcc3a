package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/edudesk/contentdesk/internal/value"
)

type parseTableRequest struct {
	Text string `json:"text"`
}

type parseTableResponse struct {
	Content [][]string `json:"content"`
}

// ConvertCSV uploads a spreadsheet for server-side conversion and returns the parsed
// rows. filter is passed through as filter_name when set.
func (c *Client) ConvertCSV(ctx context.Context, filename string, r io.Reader, filter string) (value.List, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload: %w", err)
	}

	path := "/api/convert-csv"
	if filter != "" {
		path += "?" + url.Values{"filter_name": {filter}}.Encode()
	}

	data, err := c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}
	v, err := value.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode converted rows: %w", err)
	}
	list, ok := v.(value.List)
	if !ok {
		return nil, fmt.Errorf("failed to decode converted rows: expected a list, got %s", v.Kind())
	}
	return list, nil
}

// ParseTable asks the backend to split pasted text into cells.
func (c *Client) ParseTable(ctx context.Context, text string) ([][]string, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/api/parse-table", parseTableRequest{Text: text})
	if err != nil {
		return nil, err
	}
	var resp parseTableResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode parsed table: %w", err)
	}
	return resp.Content, nil
}
