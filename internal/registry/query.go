package registry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/user/pathfind/internal/model"
)

// RawLane is one matching row from a partition's lanes table, before
// adaptation. QCStatus and StoragePath are empty when the row has no
// recorded value.
type RawLane struct {
	Name        string
	QCStatus    string
	StoragePath string
}

// columnFor maps an identifier type to the lanes column it matches.
// Lane identifiers match the lane name itself.
func columnFor(t model.IdentifierType) (string, error) {
	switch t {
	case model.TypeStudy:
		return "study", nil
	case model.TypeSample:
		return "sample", nil
	case model.TypeLibrary:
		return "library", nil
	case model.TypeSpecies:
		return "species", nil
	case model.TypeLane:
		return "name", nil
	}
	return "", fmt.Errorf("%w: %q cannot be queried directly", model.ErrInvalidType, t)
}

// QueryByIdentifier returns the lanes matching one identifier in this
// partition, ordered by name. An empty result is not an error.
func (p *Partition) QueryByIdentifier(ctx context.Context, id model.Identifier) ([]RawLane, error) {
	column, err := columnFor(id.Type)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT name, qc_status, storage_path FROM lanes WHERE %s = %s ORDER BY name`,
		column, p.placeholder)

	rows, err := p.db.QueryContext(ctx, query, id.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: query for %s: %v", model.ErrConnection, p.Name, id, err)
	}
	defer rows.Close()

	var lanes []RawLane
	for rows.Next() {
		var name string
		var qc, storagePath sql.NullString
		if err := rows.Scan(&name, &qc, &storagePath); err != nil {
			return nil, fmt.Errorf("%w: %s: scan for %s: %v", model.ErrConnection, p.Name, id, err)
		}
		lanes = append(lanes, RawLane{
			Name:        name,
			QCStatus:    qc.String,
			StoragePath: storagePath.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: query for %s: %v", model.ErrConnection, p.Name, id, err)
	}

	return lanes, nil
}
