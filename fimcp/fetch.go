package fimcp

import (
	"context"
	"fmt"

	"github.com/etnz/fiadvisor"
	"go.uber.org/zap"
)

// Fetcher retrieves the financial profile of a persona, identified by its phone.
type Fetcher interface {
	FetchProfile(ctx context.Context, phone string) (*fiadvisor.Profile, error)
}

// FetchProfile opens a session for phone and fetches every record type.
//
// A handshake failure returns no profile and the handshake error. Otherwise
// the profile holds one entry per record type, failed fetches being recorded
// as error markers.
func (c *Client) FetchProfile(ctx context.Context, phone string) (*fiadvisor.Profile, error) {
	s, err := c.AcquireSession(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("cannot open Fi session for %s: %w", phone, err)
	}
	return s.FetchProfile(ctx, fiadvisor.RecordTypes()...), nil
}

// FetchProfile calls each record type in order, a failure never aborts the remaining calls.
func (s *Session) FetchProfile(ctx context.Context, types ...fiadvisor.RecordType) *fiadvisor.Profile {
	profile := fiadvisor.NewProfile()
	for _, t := range types {
		data, err := s.Call(ctx, t)
		if err != nil {
			s.logger.Warn("record fetch failed", zap.String("record", string(t)), zap.Error(err))
			profile.SetError(t, err)
			continue
		}
		profile.Set(t, data)
	}
	s.logger.Debug("profile fetched", zap.Int("records", profile.Len()), zap.Int("failed", len(profile.Failed())))
	return profile
}
