// Package gaitdb persists derived gait parameters and reconstructed
// trajectories in a local sqlite database. Persistence lives outside the
// computation core: the pipeline produces in-memory tables and callers decide
// whether to store them.
package gaitdb

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gaitworks/stride.report/internal/gait"
)

// GaitDB wraps the sqlite handle of a gait parameter database.
type GaitDB struct {
	*sql.DB
}

// schema.sql defines the session, parameter and trajectory tables. The
// statements are idempotent so opening an existing database is safe.
//
//go:embed schema.sql
var schemaSQL string

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*GaitDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply gait schema: %w", err)
	}
	return &GaitDB{db}, nil
}

// StartSession creates a new analysis session for one sensor recording and
// returns its identifier.
func (gdb *GaitDB) StartSession(sensorID string, samplingRateHz float64, notes string) (string, error) {
	id := uuid.NewString()
	_, err := gdb.Exec(
		`INSERT INTO gait_sessions (id, sensor_id, sampling_rate_hz, notes) VALUES (?, ?, ?, ?)`,
		id, sensorID, samplingRateHz, notes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to start gait session: %w", err)
	}
	return id, nil
}

// RecordTemporalParams stores the temporal parameter table of a session.
func (gdb *GaitDB) RecordTemporalParams(sessionID string, params []gait.TemporalParams) error {
	tx, err := gdb.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO temporal_params (session_id, stride_id, stride_time, swing_time, stance_time)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range params {
		if _, err := stmt.Exec(sessionID, p.StrideID, p.StrideTime, p.SwingTime, p.StanceTime); err != nil {
			return fmt.Errorf("failed to insert temporal params for stride %d: %w", p.StrideID, err)
		}
	}
	return tx.Commit()
}

// RecordSpatialParams stores the spatial parameter table of a session.
// Clearance curves are stored as JSON arrays.
func (gdb *GaitDB) RecordSpatialParams(sessionID string, params []gait.SpatialParams) error {
	tx, err := gdb.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO spatial_params
		 (session_id, stride_id, stride_length, gait_velocity, ic_angle, tc_angle,
		  turning_angle, arc_length, ic_clearance, tc_clearance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range params {
		icJSON, err := json.Marshal(p.ICClearance)
		if err != nil {
			return err
		}
		tcJSON, err := json.Marshal(p.TCClearance)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(sessionID, p.StrideID, p.StrideLength, p.GaitVelocity,
			p.ICAngle, p.TCAngle, p.TurningAngle, p.ArcLength, string(icJSON), string(tcJSON))
		if err != nil {
			return fmt.Errorf("failed to insert spatial params for stride %d: %w", p.StrideID, err)
		}
	}
	return tx.Commit()
}

// RecordTrajectories stores every sample of every stride trajectory of a
// session.
func (gdb *GaitDB) RecordTrajectories(sessionID string, result *gait.TrajectoryResult) error {
	tx, err := gdb.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO trajectory_samples
		 (session_id, stride_id, sample, q_x, q_y, q_z, q_w,
		  vel_x, vel_y, vel_z, pos_x, pos_y, pos_z)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range result.Strides {
		for i := range t.Orientation {
			q := t.Orientation[i]
			v := t.Velocity[i]
			p := t.Position[i]
			_, err := stmt.Exec(sessionID, t.StrideID, i,
				q.Imag, q.Jmag, q.Kmag, q.Real,
				v.X, v.Y, v.Z, p.X, p.Y, p.Z)
			if err != nil {
				return fmt.Errorf("failed to insert trajectory sample %d of stride %d: %w", i, t.StrideID, err)
			}
		}
	}
	return tx.Commit()
}

// GetTemporalParams returns the temporal parameter table of a session,
// ordered by stride identifier.
func (gdb *GaitDB) GetTemporalParams(sessionID string) ([]gait.TemporalParams, error) {
	rows, err := gdb.Query(
		`SELECT stride_id, stride_time, swing_time, stance_time
		 FROM temporal_params WHERE session_id = ? ORDER BY stride_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []gait.TemporalParams
	for rows.Next() {
		var p gait.TemporalParams
		if err := rows.Scan(&p.StrideID, &p.StrideTime, &p.SwingTime, &p.StanceTime); err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// GetSpatialParams returns the spatial parameter table of a session, ordered
// by stride identifier. Clearance curves are decoded from their stored JSON
// form.
func (gdb *GaitDB) GetSpatialParams(sessionID string) ([]gait.SpatialParams, error) {
	rows, err := gdb.Query(
		`SELECT stride_id, stride_length, gait_velocity, ic_angle, tc_angle,
		        turning_angle, arc_length, ic_clearance, tc_clearance
		 FROM spatial_params WHERE session_id = ? ORDER BY stride_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []gait.SpatialParams
	for rows.Next() {
		var p gait.SpatialParams
		var icJSON, tcJSON string
		err := rows.Scan(&p.StrideID, &p.StrideLength, &p.GaitVelocity, &p.ICAngle,
			&p.TCAngle, &p.TurningAngle, &p.ArcLength, &icJSON, &tcJSON)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(icJSON), &p.ICClearance); err != nil {
			return nil, fmt.Errorf("failed to decode ic clearance for stride %d: %w", p.StrideID, err)
		}
		if err := json.Unmarshal([]byte(tcJSON), &p.TCClearance); err != nil {
			return nil, fmt.Errorf("failed to decode tc clearance for stride %d: %w", p.StrideID, err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}
