package status

// TLSInput carries the forwarded protocol set by the fronting proxy or load balancer.
// The value is trusted as-is.
type TLSInput struct {
	ForwardedProto string `header:"X-Forwarded-Proto" default:"http" doc:"Client-facing scheme reported by the proxy" example:"https"`
}
