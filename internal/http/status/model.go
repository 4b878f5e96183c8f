package status

// Fixed response bodies.
const (
	DockerMessage       = "Docker Container is configured and  Running!!!"
	LoadBalancedMessage = "Load Balancer is routing the traffic"
	TLSSecureMessage    = "TLS (HTTPS) is working! Connection is secure."
	TLSInsecureMessage  = "TLS (HTTPS) is NOT working! Connection is NOT secure."
	secretWordPrefix    = "The SECRET_WORD is: "
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
)

// indexData is the template context for the index page.
type indexData struct {
	SecretWord string
}
