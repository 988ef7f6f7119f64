package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ursmart/webapp/internal/app/models"
)

// CreateMaterial submits a new material record.
func (c *Client) CreateMaterial(ctx context.Context, token string, payload models.MaterialPayload) (models.Material, error) {
	var created models.Material
	if err := c.sendJSON(ctx, http.MethodPost, "/material/", token, payload, "create material", "Failed to create material", &created); err != nil {
		return models.Material{}, err
	}
	return created, nil
}

// MaterialsByCourse lists the materials attached to a course.
func (c *Client) MaterialsByCourse(ctx context.Context, token string, courseID int64) ([]models.Material, error) {
	var materials []models.Material
	path := fmt.Sprintf("/material/course/%d", courseID)
	if err := c.getJSON(ctx, path, token, "list materials", "Failed to load materials", &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// Material fetches a single material by id.
func (c *Client) Material(ctx context.Context, token string, materialID int64) (models.Material, error) {
	var material models.Material
	path := fmt.Sprintf("/material/%d", materialID)
	if err := c.getJSON(ctx, path, token, "get material", "Failed to load material", &material); err != nil {
		return models.Material{}, err
	}
	return material, nil
}

// UpdateMaterial resends the full material record. Votes go through here
// with only the score changed; the backend returns the stored record.
func (c *Client) UpdateMaterial(ctx context.Context, token string, materialID int64, payload models.MaterialPayload) (models.Material, error) {
	var updated models.Material
	path := fmt.Sprintf("/material/%d", materialID)
	if err := c.sendJSON(ctx, http.MethodPut, path, token, payload, "update material", "Failed to update score", &updated); err != nil {
		return models.Material{}, err
	}
	return updated, nil
}

// DeleteMaterial removes a material. The backend answers 204 with no body.
func (c *Client) DeleteMaterial(ctx context.Context, token string, materialID int64) error {
	path := fmt.Sprintf("/material/%d", materialID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, token, "", nil)
	if err != nil {
		return err
	}
	return c.do(req, "delete material", "Failed to delete material", nil)
}

// UploadFile attaches a file to an existing material. The multipart writer
// picks the content type, the request must not set one itself.
func (c *Client) UploadFile(ctx context.Context, token string, materialID int64, filename string, file io.Reader) (models.Material, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return models.Material{}, fmt.Errorf("upload file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.Material{}, fmt.Errorf("upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.Material{}, fmt.Errorf("upload file: %w", err)
	}

	path := fmt.Sprintf("/material/%d/upload", materialID)
	req, err := c.newRequest(ctx, http.MethodPost, path, token, writer.FormDataContentType(), &body)
	if err != nil {
		return models.Material{}, err
	}

	var updated models.Material
	if err := c.do(req, "upload file", "Upload failed", &updated); err != nil {
		return models.Material{}, err
	}
	return updated, nil
}
