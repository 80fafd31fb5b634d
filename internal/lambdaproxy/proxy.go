// Package lambdaproxy serves API Gateway HTTP API events with the routes of a fiber app.
package lambdaproxy

import (
	"bytes"
	"cmp"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"

	"github.com/nikmy/klaro/pkg/errors"
	"github.com/nikmy/klaro/pkg/logger"
)

func New(app *fiber.App, log logger.Logger) *Proxy {
	return &Proxy{app: app, log: log.With("lambda_proxy")}
}

type Proxy struct {
	app *fiber.App
	log logger.Logger
}

func (p *Proxy) Handle(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	req, err := toRequest(ctx, ev)
	if err != nil {
		p.log.Warn(err)
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}, nil
	}

	resp, err := p.app.Test(req, -1)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, errors.WrapFailf(err, "serve %s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	return fromResponse(resp)
}

func toRequest(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, errors.WrapFail(err, "decode base64 body")
		}
		body = decoded
	}

	target := ev.RawPath
	if target == "" {
		target = "/"
	}
	if ev.RawQueryString != "" {
		target += "?" + ev.RawQueryString
	}

	req, err := http.NewRequestWithContext(ctx, ev.RequestContext.HTTP.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapFail(err, "build request")
	}

	for k, v := range ev.Headers {
		// API Gateway joins repeated headers with commas.
		req.Header.Set(k, v)
	}
	if len(ev.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(ev.Cookies, "; "))
	}
	req.Host = cmp.Or(ev.RequestContext.DomainName, ev.Headers["host"], "localhost")

	return req, nil
}

func fromResponse(resp *http.Response) (events.APIGatewayV2HTTPResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, errors.WrapFail(err, "read response body")
	}

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
	}

	for k, v := range resp.Header {
		if k == "Set-Cookie" {
			out.Cookies = append(out.Cookies, v...)
			continue
		}
		out.Headers[k] = strings.Join(v, ",")
	}

	if isText(resp.Header.Get("Content-Type")) {
		out.Body = string(body)
	} else if len(body) > 0 {
		out.Body = base64.StdEncoding.EncodeToString(body)
		out.IsBase64Encoded = true
	}

	return out, nil
}

func isText(contentType string) bool {
	return contentType == "" ||
		strings.HasPrefix(contentType, "text/") ||
		strings.HasPrefix(contentType, fiber.MIMEApplicationJSON)
}
