package cookie

import "net/http"

// HTTPJar implements Jar over a request/response pair. Queued cookies are
// written to the response immediately with the jar's transport options.
type HTTPJar struct {
	r    *http.Request
	w    http.ResponseWriter
	opts Options
}

// NewHTTPJar creates a jar bound to the given request and response.
func NewHTTPJar(w http.ResponseWriter, r *http.Request, opts ...Option) *HTTPJar {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &HTTPJar{r: r, w: w, opts: options}
}

func (j *HTTPJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (j *HTTPJar) Queue(c Cookie) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		MaxAge:   c.MaxAge,
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HttpOnly,
		SameSite: j.opts.SameSite,
	})
}

func (j *HTTPJar) Forget(name string) {
	j.Queue(Cookie{Name: name, MaxAge: -1})
}
