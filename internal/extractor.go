package internal

// ExtractorSource reads one candidate value from the request.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
// The locale of outgoing mail is resolved this way:
//
//	internal.NewExtractor(internal.FromQuery("lang"), internal.FromHeader("Accept-Language"))
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor over sources.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns the first non-empty value.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Header(name)
		return v, v != ""
	}
}

func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Query(name)
		return v, v != ""
	}
}

func FromParam(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Param(name)
		return v, v != ""
	}
}

func FromForm(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := c.Form(name)
		return v, v != ""
	}
}
