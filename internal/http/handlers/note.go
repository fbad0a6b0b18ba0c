package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/medstudy-backend/internal/http/response"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/apierr"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type NoteHandler struct {
	log   *logger.Logger
	notes services.NoteService
}

func NewNoteHandler(log *logger.Logger, notes services.NoteService) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), notes: notes}
}

// nullableUUID tells an explicit null apart from an absent field.
type nullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (n *nullableUUID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

type notePatchRequest struct {
	Title         *string      `json:"title" binding:"omitempty,max=255"`
	Content       *string      `json:"content"`
	Tags          *[]string    `json:"tags"`
	SubjectID     nullableUUID `json:"subjectId"`
	IsAIGenerated *bool        `json:"isAiGenerated"`
}

func (r notePatchRequest) patch() types.NotePatch {
	p := types.NotePatch{
		Title:         r.Title,
		Content:       r.Content,
		Tags:          r.Tags,
		IsAIGenerated: r.IsAIGenerated,
	}
	if r.SubjectID.Set {
		if r.SubjectID.Value == nil {
			p.ClearSubject = true
		} else {
			p.SubjectID = r.SubjectID.Value
		}
	}
	return p
}

func noteID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid note id")
	}
	return id, nil
}

// GET /api/notes
func (h *NoteHandler) List(c *gin.Context) {
	out, err := h.notes.List(dbctx.New(c.Request.Context()))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req services.NoteInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.notes.Create(dbctx.New(c.Request.Context()), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// PATCH /api/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	var req notePatchRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.notes.Update(dbctx.New(c.Request.Context()), id, req.patch())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if err := h.notes.Delete(dbctx.New(c.Request.Context()), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Note deleted successfully"})
}
