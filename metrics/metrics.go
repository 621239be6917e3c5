// Package metrics exposes the resolver's counters under the docker/go-metrics
// namespace convention.
package metrics

import (
	"sync"

	"github.com/docker/go-metrics"
)

var (
	namespace = metrics.NewNamespace("bundle2resolver", "", nil)

	bookmarkPushkeysCount         = namespace.NewCounter("bookmark_pushkeys", "number of pushkey bookmark updates resolved")
	changesetsCount               = namespace.NewCounter("changesets", "number of changesets derived from pushed changegroups")
	manifestsCount                = namespace.NewCounter("manifests", "number of tree manifests uploaded")
	filelogsCount                 = namespace.NewCounter("filelogs", "number of filelog revisions uploaded")
	contentBlobsCount             = namespace.NewCounter("content_blobs", "number of content blobs registered")
	perChangesetManifestsCount    = namespace.NewGauge("per_changeset_manifests", "manifests uploaded for the most recently resolved changeset", metrics.Total)
	perChangesetFilelogsCount     = namespace.NewGauge("per_changeset_filelogs", "filelogs uploaded for the most recently resolved changeset", metrics.Total)
	perChangesetContentBlobsCount = namespace.NewGauge("per_changeset_content_blobs", "content blobs registered for the most recently resolved changeset", metrics.Total)
)

func init() {
	metrics.Register(namespace)
}

// Recorder is a thin wrapper over the package's registered metrics, safe
// for concurrent use: the go-metrics counters already are, and mu keeps the
// three per-changeset gauges updated together.
type Recorder struct {
	mu sync.Mutex
}

// NewRecorder returns a Recorder bound to the package's registered metrics.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AddBookmarkPushkeys records n resolved pushkey bookmark updates.
func (r *Recorder) AddBookmarkPushkeys(n int) { bookmarkPushkeysCount.Inc(float64(n)) }

// AddChangesets records n derived changesets.
func (r *Recorder) AddChangesets(n int) { changesetsCount.Inc(float64(n)) }

// AddManifests records n uploaded tree manifests.
func (r *Recorder) AddManifests(n int) { manifestsCount.Inc(float64(n)) }

// AddFilelogs records n uploaded filelog revisions.
func (r *Recorder) AddFilelogs(n int) { filelogsCount.Inc(float64(n)) }

// AddContentBlobs records n registered content blobs.
func (r *Recorder) AddContentBlobs(n int) { contentBlobsCount.Inc(float64(n)) }

// RecordPerChangeset updates the per-changeset gauges for the changeset
// just resolved.
func (r *Recorder) RecordPerChangeset(manifests, filelogs, contentBlobs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	perChangesetManifestsCount.Set(float64(manifests))
	perChangesetFilelogsCount.Set(float64(filelogs))
	perChangesetContentBlobsCount.Set(float64(contentBlobs))
}
