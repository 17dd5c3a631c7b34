// Package repository maps AppState and the milestone ledger onto a
// storage.Gateway.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/studystreak/internal/constants"
	"github.com/julianstephens/studystreak/internal/logger"
	"github.com/julianstephens/studystreak/internal/models"
	"github.com/julianstephens/studystreak/internal/storage"
)

// ErrMalformedState marks a stored snapshot that could not be decoded.
var ErrMalformedState = errors.New("stored state is malformed")

// Repository is the persistence boundary used by the tracker service.
type Repository interface {
	LoadState() (models.AppState, error)
	SaveState(models.AppState) error
	LoadMilestone() (int, error)
	SaveMilestone(int) error
}

// Store implements Repository over a gateway.
type Store struct {
	gw storage.Gateway
}

func New(gw storage.Gateway) *Store {
	return &Store{gw: gw}
}

// Gateway returns the underlying gateway.
func (s *Store) Gateway() storage.Gateway { return s.gw }

// DecodeState parses a stored snapshot. Legacy numeric task ids and
// unparseable entry dates are accepted.
func DecodeState(raw []byte) (models.AppState, error) {
	var state models.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.DefaultAppState(), fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	state.Normalize()
	return state, nil
}

// EncodeState renders state in the persisted wire shape.
func EncodeState(state models.AppState) ([]byte, error) {
	state.Normalize()
	return json.Marshal(state)
}

// LoadState returns the stored snapshot, or the default empty state when
// nothing is stored. A malformed snapshot is replaced by the default state,
// which is written back so the next load is clean.
func (s *Store) LoadState() (models.AppState, error) {
	raw, ok, err := s.gw.Read(constants.AppStateKey)
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to read state: %w", err)
	}
	if !ok {
		return models.DefaultAppState(), nil
	}

	state, err := DecodeState(raw)
	if err != nil {
		logger.Warn("Discarding malformed state", "key", constants.AppStateKey, "error", err)
		state = models.DefaultAppState()
		if err := s.SaveState(state); err != nil {
			return state, fmt.Errorf("failed to reset malformed state: %w", err)
		}
	}
	return state, nil
}

func (s *Store) SaveState(state models.AppState) error {
	raw, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.gw.Write(constants.AppStateKey, raw); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// LoadMilestone returns the highest celebrated threshold, 0 if none. An
// unreadable value is treated as 0.
func (s *Store) LoadMilestone() (int, error) {
	raw, ok, err := s.gw.Read(constants.MilestoneKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read milestone ledger: %w", err)
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if err != nil || v < 0 {
		logger.Warn("Ignoring malformed milestone ledger", "value", string(raw))
		return 0, nil
	}
	return v, nil
}

func (s *Store) SaveMilestone(v int) error {
	if err := s.gw.Write(constants.MilestoneKey, []byte(strconv.Itoa(v))); err != nil {
		return fmt.Errorf("failed to save milestone ledger: %w", err)
	}
	return nil
}
