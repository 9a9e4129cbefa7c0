package domain

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "studybuddy-admin/domain"

func startSpan(ctx context.Context, op, collection string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, op+" "+collection,
		trace.WithAttributes(attribute.String("collection", collection)))
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
