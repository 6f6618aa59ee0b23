package client

import (
	"bytes"
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// UploadAsset pushes image bytes through the createAssets multipart upload.
// Asset uploads are best-effort everywhere in the importer, so failures are
// logged and reported as an empty id rather than an error.
func (c *VendureClient) UploadAsset(ctx context.Context, data []byte, filename string) string {
	operations, err := json.Marshal(map[string]any{
		"query": createAssetsMutation,
		"variables": map[string]any{
			"input": []map[string]any{{"file": nil, "tags": []string{}}},
		},
	})
	if err != nil {
		log.Warnf("⚠ Failed to encode asset upload: %v", err)
		return ""
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"operations": string(operations),
			"map":        `{"0":["variables.input.0.file"]}`,
		}).
		SetMultipartFields(&resty.MultipartField{
			Name:     "0",
			FileName: filename,
			Reader:   bytes.NewReader(data),
		}).
		Post(c.adminAPI)
	if err != nil {
		log.Warnf("⚠ Asset upload failed for %s: %v", filename, err)
		return ""
	}
	if resp.IsError() {
		log.Warnf("⚠ Asset upload failed for %s: %s", filename, resp.Status())
		return ""
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		log.Warnf("⚠ Failed to decode asset upload response: %v", err)
		return ""
	}
	if len(envelope.Errors) > 0 {
		log.Warnf("⚠ Asset upload rejected: %v", newAPIError("createAssets", envelope.Errors))
		return ""
	}

	var payload struct {
		CreateAssets []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"createAssets"`
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil || len(payload.CreateAssets) == 0 {
		log.Warnf("⚠ Asset upload returned no asset for %s", filename)
		return ""
	}
	if payload.CreateAssets[0].ID == "" {
		log.Warnf("⚠ Asset upload rejected for %s: %s", filename, payload.CreateAssets[0].Message)
		return ""
	}

	log.Debugf("Asset created: %s (%s)", filename, payload.CreateAssets[0].ID)
	return payload.CreateAssets[0].ID
}
