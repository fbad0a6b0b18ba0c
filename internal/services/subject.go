package services

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

//go:embed seed/default_subjects.yaml
var defaultSubjectsYAML []byte

type SubjectInput struct {
	Name        string  `json:"name" yaml:"name" binding:"required,max=100"`
	Description *string `json:"description" yaml:"description"`
	Icon        *string `json:"icon" yaml:"icon" binding:"omitempty,max=50"`
	Color       *string `json:"color" yaml:"color" binding:"omitempty,max=20"`
}

type SubjectService interface {
	List(dbc dbctx.Context) ([]*types.Subject, error)
	Create(dbc dbctx.Context, in SubjectInput) (*types.Subject, error)
	// InitializeDefaults creates the built-in catalog. It is not idempotent:
	// every call inserts a fresh set.
	InitializeDefaults(dbc dbctx.Context) ([]*types.Subject, error)
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	defaults    []SubjectInput
}

func NewSubjectService(db *gorm.DB, log *logger.Logger, subjectRepo repos.SubjectRepo) (SubjectService, error) {
	defaults, err := DefaultSubjects()
	if err != nil {
		return nil, err
	}
	return &subjectService{
		db:          db,
		log:         log.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
		defaults:    defaults,
	}, nil
}

// DefaultSubjects decodes the embedded subject catalog.
func DefaultSubjects() ([]SubjectInput, error) {
	var doc struct {
		Subjects []SubjectInput `yaml:"subjects"`
	}
	if err := yaml.Unmarshal(defaultSubjectsYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode default subjects: %w", err)
	}
	if len(doc.Subjects) == 0 {
		return nil, fmt.Errorf("default subject catalog is empty")
	}
	return doc.Subjects, nil
}

func (ss *subjectService) List(dbc dbctx.Context) ([]*types.Subject, error) {
	return ss.subjectRepo.List(dbc)
}

func (ss *subjectService) Create(dbc dbctx.Context, in SubjectInput) (*types.Subject, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, pkgerrors.InvalidArgument("name is required")
	case len(name) > 100:
		return nil, pkgerrors.InvalidArgument("name exceeds 100 characters")
	case in.Icon != nil && len(*in.Icon) > 50:
		return nil, pkgerrors.InvalidArgument("icon exceeds 50 characters")
	case in.Color != nil && len(*in.Color) > 20:
		return nil, pkgerrors.InvalidArgument("color exceeds 20 characters")
	}
	return ss.subjectRepo.Create(dbc, &types.Subject{
		Name:        name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
	})
}

func (ss *subjectService) InitializeDefaults(dbc dbctx.Context) ([]*types.Subject, error) {
	out := make([]*types.Subject, len(ss.defaults))
	g, gctx := errgroup.WithContext(dbc.Ctx)
	if dbc.Tx != nil {
		// A transaction holds a single connection.
		g.SetLimit(1)
	}
	for i, in := range ss.defaults {
		g.Go(func() error {
			created, err := ss.Create(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, in)
			if err != nil {
				return fmt.Errorf("create default subject %q: %w", in.Name, err)
			}
			out[i] = created
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ss.log.Info("Default subjects initialized", "count", len(out))
	return out, nil
}
