package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

func (handler *Handler) UploadDocument(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file is required")
	}
	body, err := header.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file could not be read")
	}
	defer body.Close()

	document, err := handler.documentService.Upload(c.UserContext(), userID(c), applicationID, services.DocumentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Category:    c.FormValue("doc_category"),
		Body:        body,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(document)
}

func (handler *Handler) ListDocuments(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	documents, err := handler.documentService.List(userID(c), applicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(documents)
}

// DownloadDocument streams the blob; fasthttp closes the reader once sent.
func (handler *Handler) DownloadDocument(c *fiber.Ctx) error {
	documentID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	document, reader, err := handler.documentService.Open(c.UserContext(), userID(c), documentID)
	if err != nil {
		return respondError(c, err)
	}

	c.Attachment(document.Filename)
	if document.FileType != "" {
		c.Set(fiber.HeaderContentType, document.FileType)
	}
	size := -1
	if document.FileSize > 0 {
		size = int(document.FileSize)
	}
	return c.SendStream(reader, size)
}

func (handler *Handler) DeleteDocument(c *fiber.Ctx) error {
	documentID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	if err := handler.documentService.Delete(c.UserContext(), userID(c), documentID); err != nil {
		return respondError(c, err)
	}
	return sendNoContent(c)
}
