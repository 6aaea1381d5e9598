package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cartomix/groove/internal/grooveprofile"
)

// ProfileRecord is a stored groove profile: the profile body plus its
// integrity hash and row identity.
type ProfileRecord struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Profile    *grooveprofile.Profile `json:"profile"`
	GrooveHash string                 `json:"groove_hash"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// PutProfile inserts or replaces the named profile, storing the
// caller-supplied groove hash as given: storage never computes hashes
// itself, so hashing policy stays in internal/groovehash.
func (d *DB) PutProfile(name string, profile *grooveprofile.Profile, grooveHash string) (*ProfileRecord, error) {
	profileJSON, err := profileToJSON(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}

	existingID, err := d.profileIDByName(name)
	if err != nil {
		return nil, err
	}
	id := existingID
	if id == "" {
		id = uuid.NewString()
	}

	_, err = d.db.Exec(`
		INSERT INTO groove_profiles (id, name, profile_json, groove_hash, randomization_seed, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			profile_json = excluded.profile_json,
			groove_hash = excluded.groove_hash,
			randomization_seed = excluded.randomization_seed,
			updated_at = CURRENT_TIMESTAMP
	`, id, name, profileJSON, grooveHash, profile.RandomizationSeed)
	if err != nil {
		return nil, fmt.Errorf("put profile: %w", err)
	}

	return d.GetProfile(id)
}

func (d *DB) profileIDByName(name string) (string, error) {
	var id string
	err := d.db.QueryRow(`SELECT id FROM groove_profiles WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup profile by name: %w", err)
	}
	return id, nil
}

// GetProfile fetches a profile by id.
func (d *DB) GetProfile(id string) (*ProfileRecord, error) {
	row := d.db.QueryRow(`
		SELECT id, name, profile_json, groove_hash, created_at, updated_at
		FROM groove_profiles WHERE id = ?
	`, id)
	return scanProfileRow(row.Scan)
}

// GetProfileByName fetches a profile by its unique name.
func (d *DB) GetProfileByName(name string) (*ProfileRecord, error) {
	row := d.db.QueryRow(`
		SELECT id, name, profile_json, groove_hash, created_at, updated_at
		FROM groove_profiles WHERE name = ?
	`, name)
	return scanProfileRow(row.Scan)
}

func scanProfileRow(scan func(dest ...any) error) (*ProfileRecord, error) {
	var rec ProfileRecord
	var profileJSON string
	var createdAt, updatedAt string
	if err := scan(&rec.ID, &rec.Name, &profileJSON, &rec.GrooveHash, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	profile, err := grooveprofile.Load([]byte(profileJSON))
	if err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	rec.Profile = profile
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// ListProfiles returns every stored profile, ordered by name.
func (d *DB) ListProfiles() ([]*ProfileRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, name, profile_json, groove_hash, created_at, updated_at
		FROM groove_profiles ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []*ProfileRecord
	for rows.Next() {
		rec, err := scanProfileRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteProfile removes a profile by id.
func (d *DB) DeleteProfile(id string) error {
	_, err := d.db.Exec(`DELETE FROM groove_profiles WHERE id = ?`, id)
	return err
}

func profileToJSON(p *grooveprofile.Profile) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
