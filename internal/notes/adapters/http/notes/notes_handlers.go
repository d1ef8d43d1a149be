// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"threadnotes/internal/notes/adapters/http/dto"
	"threadnotes/internal/notes/adapters/http/middleware"
	"threadnotes/internal/notes/domain/entities"
	"threadnotes/internal/notes/ports/services"
	"threadnotes/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote   = "handling create note request"
	LogHandlerGetNote      = "handling get note request"
	LogHandlerListNotes    = "handling list notes request"
	LogHandlerUpdateNote   = "handling update note request"
	LogHandlerDeleteNote   = "handling delete note request"
	LogHandlerReorderNotes = "handling reorder notes request"

	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgValidationFailed   = "request validation failed"
	ErrMsgNoteNotFound       = "note not found"
	ErrMsgNotesNotOwned      = "some notes not found"
	ErrMsgInternal           = "Internal server error"

	queryThreadID = "thread_id"
	paramNoteID   = "note_id"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notesService services.NoteService
	validate     *validator.Validate
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesService services.NoteService) *Handler {
	return &Handler{
		notesService: notesService,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(requestCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if ok, err := h.bindBody(ctx, log, &req); !ok {
		return err
	}

	note, err := h.notesService.Create(requestCtx, req.ToParams(middleware.UserID(ctx)))
	if err != nil {
		log.Error(requestCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(dto.NoteResponse{Note: dto.FromEntity(note)}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(requestCtx, LogHandlerGetNote)

	noteID := ctx.Params(paramNoteID)
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	note, err := h.notesService.Get(requestCtx, middleware.UserID(ctx), noteID)
	if err != nil {
		log.Debug(requestCtx, "failed to get note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.NoteResponse{Note: dto.FromEntity(note)}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListNotes возвращает заметки пользователя, при наличии thread_id - только заметки треда.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(requestCtx, LogHandlerListNotes)

	userID := middleware.UserID(ctx)

	var (
		notes []*entities.Note
		err   error
	)
	if threadID := ctx.Query(queryThreadID); threadID != "" {
		notes, err = h.notesService.ListByThread(requestCtx, userID, threadID)
	} else {
		notes, err = h.notesService.List(requestCtx, userID)
	}
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.FromEntities(notes)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на частичное обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(requestCtx, LogHandlerUpdateNote)

	noteID := ctx.Params(paramNoteID)
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	var req dto.UpdateNoteRequest
	if ok, err := h.bindBody(ctx, log, &req); !ok {
		return err
	}

	note, err := h.notesService.Update(requestCtx, middleware.UserID(ctx), noteID, req.ToPatch())
	if err != nil {
		log.Error(requestCtx, "failed to update note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.NoteResponse{Note: dto.FromEntity(note)}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(requestCtx, LogHandlerDeleteNote)

	noteID := ctx.Params(paramNoteID)
	if noteID == "" {
		return badRequest(ctx, ErrMsgInvalidNoteID)
	}

	if err := h.notesService.Delete(requestCtx, middleware.UserID(ctx), noteID); err != nil {
		log.Error(requestCtx, "failed to delete note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ReorderNotes обрабатывает пакетное изменение порядка заметок.
func (h *Handler) ReorderNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ReorderNotes"))
	log.Debug(requestCtx, LogHandlerReorderNotes)

	var req dto.ReorderRequest
	if ok, err := h.bindBody(ctx, log, &req); !ok {
		return err
	}

	if err := h.notesService.Reorder(requestCtx, middleware.UserID(ctx), req.ToItems()); err != nil {
		log.Error(requestCtx, "failed to reorder notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// bindBody разбирает и валидирует тело запроса. При ok=false ответ уже отправлен.
func (h *Handler) bindBody(ctx fiber.Ctx, log *logger.Logger, req any) (bool, error) {
	requestCtx := middleware.RequestContext(ctx)

	if err := ctx.Bind().Body(req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return false, badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	if err := h.validate.Struct(req); err != nil {
		log.Debug(requestCtx, ErrMsgValidationFailed, zap.Error(err))
		return false, badRequest(ctx, fmt.Sprintf("%s: %s", ErrMsgValidationFailed, err.Error()))
	}

	return true, nil
}

func badRequest(ctx fiber.Ctx, message string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: message}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

// handleError переводит доменные ошибки в HTTP-статусы.
func handleError(ctx fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := dto.ErrorResponse{Error: ErrMsgInternal}

	var ownershipErr *entities.PartialOwnershipError
	switch {
	case errors.As(err, &ownershipErr):
		status = fiber.StatusForbidden
		body = dto.ErrorResponse{Error: ErrMsgNotesNotOwned, IDs: ownershipErr.IDs}
	case errors.Is(err, entities.ErrNoteNotFoundOrNotOwned):
		status = fiber.StatusNotFound
		body.Error = ErrMsgNoteNotFound
	case errors.Is(err, entities.ErrInvalidParams):
		status = fiber.StatusBadRequest
		body.Error = err.Error()
	}

	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending %d response: %w", status, err)
	}
	return nil
}
