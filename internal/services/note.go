package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type NoteInput struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Content       string     `json:"content" binding:"required"`
	Tags          []string   `json:"tags"`
	SubjectID     *uuid.UUID `json:"subjectId"`
	IsAIGenerated bool       `json:"isAiGenerated"`
}

type NoteService interface {
	List(dbc dbctx.Context) ([]*types.Note, error)
	Create(dbc dbctx.Context, in NoteInput) (*types.Note, error)
	// Update and Delete report ErrNotFound for notes owned by someone else.
	Update(dbc dbctx.Context, id uuid.UUID, patch types.NotePatch) (*types.Note, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type noteService struct {
	log      *logger.Logger
	noteRepo repos.NoteRepo
}

func NewNoteService(log *logger.Logger, noteRepo repos.NoteRepo) NoteService {
	return &noteService{
		log:      log.With("service", "NoteService"),
		noteRepo: noteRepo,
	}
}

func (ns *noteService) List(dbc dbctx.Context) ([]*types.Note, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return ns.noteRepo.ListByUser(dbc, userID)
}

func (ns *noteService) Create(dbc dbctx.Context, in NoteInput) (*types.Note, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := validateNoteText(&in.Title, &in.Content); err != nil {
		return nil, err
	}
	return ns.noteRepo.Create(dbc, &types.Note{
		UserID:        userID,
		SubjectID:     in.SubjectID,
		Title:         in.Title,
		Content:       in.Content,
		Tags:          cleanTags(in.Tags),
		IsAIGenerated: in.IsAIGenerated,
	})
}

func (ns *noteService) Update(dbc dbctx.Context, id uuid.UUID, patch types.NotePatch) (*types.Note, error) {
	if err := ns.requireOwned(dbc, id); err != nil {
		return nil, err
	}
	if err := validateNoteText(patch.Title, patch.Content); err != nil {
		return nil, err
	}
	if patch.Tags != nil {
		tags := []string(cleanTags(*patch.Tags))
		patch.Tags = &tags
	}
	return ns.noteRepo.Update(dbc, id, patch)
}

func (ns *noteService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if err := ns.requireOwned(dbc, id); err != nil {
		return err
	}
	return ns.noteRepo.Delete(dbc, id)
}

func (ns *noteService) requireOwned(dbc dbctx.Context, id uuid.UUID) error {
	userID, err := callerID(dbc)
	if err != nil {
		return err
	}
	n, err := ns.noteRepo.Get(dbc, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		ns.log.Warn("Note access denied", "note_id", id.String(), "user_id", userID)
		return fmt.Errorf("note %s: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}

// validateNoteText trims and checks whichever of title/content is present.
func validateNoteText(title, content *string) error {
	var problems []string
	if title != nil {
		*title = strings.TrimSpace(*title)
		if *title == "" {
			problems = append(problems, "title is required")
		} else if len(*title) > 255 {
			problems = append(problems, "title exceeds 255 characters")
		}
	}
	if content != nil && strings.TrimSpace(*content) == "" {
		problems = append(problems, "content is required")
	}
	if len(problems) == 0 {
		return nil
	}
	return pkgerrors.InvalidArgument("%s", strings.Join(problems, "; "))
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
