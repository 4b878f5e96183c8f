package status

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/status-demo/internal/platform/logging"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const tag = "Status"

type handler struct {
	secret string
}

// Register wires the status routes into the provided API. secret is the
// configured secret word; it is fixed for the lifetime of the API.
func Register(api huma.API, secret string) {
	h := &handler{secret: secret}

	huma.Register(api, operation("get-index", "/", contentTypeHTML,
		"Index page showing the configured secret word"), h.index)
	huma.Register(api, operation("get-docker", "/docker", contentTypeText,
		"Report that the container is running"), h.docker)
	huma.Register(api, operation("get-secret-word", "/secret_word", contentTypeText,
		"Report the configured secret word"), h.secretWord)
	huma.Register(api, operation("get-loadbalanced", "/loadbalanced", contentTypeText,
		"Report that the load balancer routed the request"), h.loadBalanced)

	tlsOp := operation("get-tls", "/tls", contentTypeText, "Report whether TLS was terminated upstream")
	tlsOp.Description = "Trusts the X-Forwarded-Proto header as sent. Only the exact value `https` counts as secure."
	huma.Register(api, tlsOp, h.tls)
}

// operation describes a GET route whose 200 response is a plain string of the given media type.
func operation(id, path, contentType, summary string) huma.Operation {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return huma.Operation{
		OperationID: id,
		Method:      http.MethodGet,
		Path:        path,
		Summary:     summary,
		Tags:        []string{tag},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "OK",
				Content: map[string]*huma.MediaType{
					mediaType: {Schema: &huma.Schema{Type: huma.TypeString}},
				},
			},
		},
	}
}

func (h *handler) index(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "index page", zap.String("path", "/"))
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{SecretWord: h.secret}); err != nil {
		applog.LogError(ctx, "render index template", err)
		return nil, huma.Error500InternalServerError("internal server error")
	}
	return &Output{ContentType: contentTypeHTML, Body: buf.Bytes()}, nil
}

func (h *handler) docker(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "docker check", zap.String("path", "/docker"))
	return textOutput(DockerMessage), nil
}

func (h *handler) secretWord(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "secret word check", zap.String("path", "/secret_word"))
	return textOutput(SecretWordMessage(h.secret)), nil
}

func (h *handler) loadBalanced(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "load balancer check", zap.String("path", "/loadbalanced"))
	return textOutput(LoadBalancedMessage), nil
}

func (h *handler) tls(ctx context.Context, input *TLSInput) (*Output, error) {
	secure := IsSecure(input.ForwardedProto)
	applog.LogInfo(ctx, "tls check",
		zap.String("path", "/tls"),
		zap.String("forwardedProto", input.ForwardedProto),
		zap.Bool("secure", secure),
	)
	if secure {
		return textOutput(TLSSecureMessage), nil
	}
	return textOutput(TLSInsecureMessage), nil
}

// SecretWordMessage formats the /secret_word response body.
func SecretWordMessage(secret string) string {
	return secretWordPrefix + secret
}

// IsSecure reports whether the forwarded protocol is exactly "https".
// The comparison is case-sensitive.
func IsSecure(forwardedProto string) bool {
	return forwardedProto == "https"
}
