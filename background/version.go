package background

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

const releaseURL = "https://api.github.com/repos/projecthelios/HeliosManager/releases/latest"

// VersionChecker periodically checks for a newer release and logs a notice.
type VersionChecker struct {
	current *semver.Version
	tick    chan time.Time
}

type release struct {
	TagName string `json:"tag_name"`
}

// NewVersionCheck parses the running version and returns a checker.
func NewVersionCheck(current string) (*VersionChecker, error) {
	sem, err := semver.NewVersion(current)
	if err != nil {
		return nil, errors.Wrapf(err, "background: cannot parse version %q", current)
	}
	tick := make(chan time.Time, 1)
	tick <- time.Now()

	return &VersionChecker{
		current: sem,
		tick:    tick,
	}, nil
}

func (v *VersionChecker) String() string {
	return "VersionChecker"
}

// Serve runs the checker loop until the context is canceled.
func (v *VersionChecker) Serve(haltCtx context.Context) error {
	log.Println("[VersionChecker] starting checker loop")

	go func() {
		ticker := time.NewTicker(time.Hour * 6)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				v.tick <- t
			case <-haltCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-haltCtx.Done():
			log.Println("[VersionChecker] stopping checker loop")
			return nil
		case <-v.tick:
			latest, err := v.getLatest()
			if err != nil {
				log.Printf("[VersionChecker] error checking for new version: %+v\n", err)
				continue
			}
			if latest.GreaterThan(v.current) {
				log.Printf("[VersionChecker] a newer release is available: %s\n", latest.String())
			}
		}
	}
}

func (v *VersionChecker) getLatest() (*semver.Version, error) {
	client := http.Client{
		Timeout: time.Second * 5,
	}
	req, err := http.NewRequest(http.MethodGet, releaseURL, nil)
	if err != nil {
		return nil, err
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var r release
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	return semver.NewVersion(r.TagName)
}
