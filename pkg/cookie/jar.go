package cookie

// Cookie is a queued outgoing cookie. Zero MaxAge means a session cookie;
// negative MaxAge expires it immediately.
type Cookie struct {
	Name   string
	Value  string
	MaxAge int
}

// Jar abstracts cookie transport so guards stay independent of net/http.
// Implementations must be safe for use within a single request.
type Jar interface {
	// Get returns the incoming cookie value by name.
	Get(name string) (string, bool)

	// Queue schedules a cookie to be sent with the response.
	Queue(c Cookie)

	// Forget schedules the named cookie for deletion.
	Forget(name string)
}
