package sampler

import (
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
)

type progress interface {
	Increment() *pb.ProgressBar
	Finish() *pb.ProgressBar
}

type noProgress struct{}

func (noProgress) Increment() *pb.ProgressBar { return nil }
func (noProgress) Finish() *pb.ProgressBar    { return nil }

func startProgress(enabled bool, total int, name string) progress {
	if !enabled {
		return noProgress{}
	}

	bar := pb.StartNew(total)
	bar.Set("prefix", name)
	bar.SetRefreshRate(time.Second)
	if w, err := termutil.TerminalWidth(); w == 0 || err != nil {
		bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{rtime . "ETA %s"}}{{with string . "suffix"}} {{.}}{{end}}` + "\n")
	}
	return bar
}
