package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckAffectedRows(t *testing.T) {
	if err := checkAffectedRows(fakeResult{rows: 1}, ErrFixtureNotFound); err != nil {
		t.Errorf("one row: %v", err)
	}
	if err := checkAffectedRows(fakeResult{rows: 0}, ErrFixtureNotFound); !errors.Is(err, ErrFixtureNotFound) {
		t.Errorf("zero rows: %v", err)
	}
	boom := errors.New("boom")
	if err := checkAffectedRows(fakeResult{err: boom}, ErrFixtureNotFound); !errors.Is(err, boom) {
		t.Errorf("driver error: %v", err)
	}
}

func TestConstraintError(t *testing.T) {
	mapping := map[string]error{"fixtures_home_team_id_fkey": ErrFixtureTeamInvalid}

	fk := &pq.Error{Code: pqForeignKeyViolation, Constraint: "fixtures_home_team_id_fkey"}
	if err := constraintError(fmt.Errorf("insert: %w", fk), pqForeignKeyViolation, mapping); !errors.Is(err, ErrFixtureTeamInvalid) {
		t.Errorf("mapped fk = %v", err)
	}

	other := &pq.Error{Code: pqForeignKeyViolation, Constraint: "something_else"}
	if err := constraintError(other, pqForeignKeyViolation, mapping); err != other {
		t.Errorf("unknown constraint = %v", err)
	}

	unique := &pq.Error{Code: pqUniqueViolation, Constraint: "fixtures_home_team_id_fkey"}
	if err := constraintError(unique, pqForeignKeyViolation, mapping); err != unique {
		t.Errorf("other code = %v", err)
	}

	plain := errors.New("plain")
	if err := constraintError(plain, pqForeignKeyViolation, mapping); err != plain {
		t.Errorf("plain = %v", err)
	}
}

func TestFixtureErrorMapping(t *testing.T) {
	r := &postgresFixtureRepository{}
	check := &pq.Error{Code: pqCheckViolation, Constraint: "fixtures_distinct_teams_check"}
	if err := r.handleFixtureError(check); !errors.Is(err, ErrFixtureTeamsEqual) {
		t.Errorf("check violation = %v", err)
	}
	comp := &pq.Error{Code: pqForeignKeyViolation, Constraint: "fixtures_competition_id_fkey"}
	if err := r.handleFixtureError(comp); !errors.Is(err, ErrFixtureCompetitionInvalid) {
		t.Errorf("competition fk = %v", err)
	}
	if err := r.handleFixtureError(nil); err != nil {
		t.Errorf("nil = %v", err)
	}
}

func TestMarshalJSONBRoundTrip(t *testing.T) {
	type doc struct {
		A int `json:"a"`
	}
	s, err := marshalJSONB(doc{A: 3})
	if err != nil || s != `{"a":3}` {
		t.Fatalf("marshalJSONB = %q, %v", s, err)
	}
	var out *doc
	if err := unmarshalJSONB([]byte("null"), &out); err != nil || out != nil {
		t.Errorf("null column = %v, %v", out, err)
	}
	if err := unmarshalJSONB([]byte(s), &out); err != nil || out == nil || out.A != 3 {
		t.Errorf("decoded = %+v, %v", out, err)
	}
}
