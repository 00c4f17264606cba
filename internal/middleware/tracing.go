package middleware

import (
	"fmt"

	"moviepicker/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// LocalsView is the Fiber locals key under which handlers record the view
// they rendered.
const LocalsView = "view"

// TracingMiddleware opens a server span per request. The span is renamed to
// the matched route once routing is done, and carries the rendered view and
// the session user's id and role.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.path", c.Path()),
				attribute.String("http.ip", c.IP()),
			),
		)

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Response().StatusCode()),
		)
		span.SetAttributes(requestAttributes(c)...)

		observability.EndSpan(span, err)
		return err
	}
}

// requestAttributes describes what the request resolved to: the view it
// rendered and who asked for it.
func requestAttributes(c *fiber.Ctx) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if view, ok := c.Locals(LocalsView).(string); ok && view != "" {
		attrs = append(attrs, attribute.String("moviepicker.view", view))
	}
	ctx := c.UserContext()
	if userID, ok := ctx.Value(UserIDKey).(uint); ok {
		attrs = append(attrs, attribute.Int64("user.id", int64(userID)))
	}
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		attrs = append(attrs, attribute.String("user.role", role))
	}
	return attrs
}
