package transcribe

import "context"

// Mock is a test double that returns a fixed or computed transcript per
// call, without touching the network.
type Mock struct {
	// Fn computes the transcript for a given sample path. If nil, Text is
	// returned for every call.
	Fn   func(pcmPath string) (string, error)
	Text string
}

func (m *Mock) Transcribe(_ context.Context, pcmPath string) (string, error) {
	if m.Fn != nil {
		return m.Fn(pcmPath)
	}
	return m.Text, nil
}
