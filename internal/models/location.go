package models

// PermissionStatus is the answer of the device to a location request.
type PermissionStatus string

// Permission states
const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Address is one reverse geocoding candidate.
type Address struct {
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// ResolutionSource says where a city name came from.
type ResolutionSource string

// Resolution sources
const (
	SourceDevice   ResolutionSource = "device"
	SourceFallback ResolutionSource = "fallback"
	SourceSearch   ResolutionSource = "search"
	SourceSaved    ResolutionSource = "saved"
)

// FallbackReason says why the resolver could not use the device location.
type FallbackReason int

// Fallback reasons
const (
	ReasonNone FallbackReason = iota
	ReasonDenied
	ReasonUnknownCity
)

// Resolution is the output of the location resolver.
// Notice is set whenever City is the fallback.
type Resolution struct {
	City   string
	Notice string
	Source ResolutionSource
	Reason FallbackReason
}

// Fallback reports whether the resolver used the default city.
func (r Resolution) Fallback() bool {
	return r.Reason != ReasonNone
}
