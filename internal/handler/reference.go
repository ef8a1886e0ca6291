package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/pkordes/timeledger/internal/domain"
)

// ProjectRef is a project reference in a request body. It accepts either a
// JSON number (an id) or a string, which is parsed with domain.ParseReference
// so "42" and 42 mean the same project.
type ProjectRef struct {
	domain.Reference
	set bool
}

func (p *ProjectRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		ref, err := domain.ParseReference(s)
		if err != nil {
			return err
		}
		p.Reference, p.set = ref, true
		return nil
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return errors.New("project must be an id or a name")
	}
	p.Reference, p.set = domain.ByID(id), true
	return nil
}

// require returns the reference or a validation error if it was absent.
func (p ProjectRef) require() (domain.Reference, error) {
	if !p.set {
		return domain.Reference{}, errMissingProject
	}
	return p.Reference, nil
}

var errMissingProject = fmt.Errorf("%w: project is required", domain.ErrValidation)
