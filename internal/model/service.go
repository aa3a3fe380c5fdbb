package model

import (
	"fmt"

	"github.com/go-openapi/strfmt"

	"simpleorm/internal/orm"
)

// Column names of the servicos table
const (
	ServiceName        = "name"
	ServiceDescription = "descricao"
	ServiceCreatedAt   = "created_at"
)

// Service is one row of the servicos table
type Service struct {
	orm.Record
}

// Name returns the service name
func (s *Service) Name() string {
	return s.Text(ServiceName)
}

// Description returns the free-text description
func (s *Service) Description() string {
	return s.Text(ServiceDescription)
}

// CreatedAt returns the creation stamp, false when unset or unparseable
func (s *Service) CreatedAt() (strfmt.DateTime, bool) {
	return dateTime(s.Get(ServiceCreatedAt))
}

func (s *Service) String() string {
	if d := s.Description(); d != "" {
		return fmt.Sprintf("%s - %s", s.Name(), d)
	}
	return s.Name()
}

// Services binds Service to the servicos table
func Services(eng *orm.Engine) *orm.Model[*Service] {
	return orm.NewModel(
		func() *Service { return &Service{} },
		orm.Binding{Table: "servicos", Engine: eng},
		orm.WithOutputFilter(func(s *Service) { normalizeCreatedAt(&s.Record) }),
		orm.WithPreInsert(func(s *Service, f orm.Fields) { stampCreatedAt(f) }),
	)
}
