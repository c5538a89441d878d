package scheduler

import (
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/lllkojlhuk/sushikub/filestore"
)

// CacheSweepSchedule runs the derived-image sweep once a day, at night when
// order traffic is lowest.
const CacheSweepSchedule = "30 4 * * *"

// CacheSweepJob deletes cached image derivatives older than the configured
// retention period.
type CacheSweepJob struct {
	Cache         *filestore.ImageCache
	RetentionDays int
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "image-cache-sweep"
}

// Execute runs the sweep over the whole storage tree.
func (j *CacheSweepJob) Execute() error {
	maxAge := time.Duration(j.RetentionDays) * 24 * time.Hour

	start := time.Now()
	removed, err := j.Cache.Sweep("", maxAge)
	if err != nil {
		return err
	}

	log.Infof("Image cache sweep removed %d stale derivatives in %.1fs (retention %d days)",
		removed, time.Since(start).Seconds(), j.RetentionDays)
	return nil
}
