package ioimport

import (
	"github.com/cheggaaa/pb/v3"
)

type progress interface {
	Add(int) *pb.ProgressBar
	Finish() *pb.ProgressBar
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(
	total int,
	prefix string,
) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

type noProgress struct{}

func (noProgress) Add(int) *pb.ProgressBar { return nil }

func (noProgress) Finish() *pb.ProgressBar { return nil }
