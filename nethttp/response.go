package nethttp

import (
	"net/http"
	"sync"

	"github.com/hookless-go/hookless"
)

// rawResponse implements hookless.RawResponse directly against the
// underlying http.ResponseWriter's header map; the status line itself is
// deferred until commit, which outputStream triggers once the Task begins
// its write phase (see OnWritable in output.go), by which point status,
// headers, and cookies are all final.
type rawResponse struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	status      int
	wroteHeader bool
}

func newRawResponse(w http.ResponseWriter) *rawResponse {
	return &rawResponse{w: w, status: http.StatusOK}
}

func (r *rawResponse) SetStatus(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = code
}

func (r *rawResponse) SetHeader(key, value string) {
	r.w.Header().Set(key, value)
}

func (r *rawResponse) AddCookie(c *http.Cookie) {
	http.SetCookie(r.w, c)
}

// commit writes the status line exactly once. Safe to call even for a
// response with no body, since a Task's write phase always registers
// OnWritable before checking whether there is anything to write.
func (r *rawResponse) commit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.w.WriteHeader(r.status)
}

var _ hookless.RawResponse = (*rawResponse)(nil)
