package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/encode"
	"github.com/mpapenbr/gps-extractor/pkg/extract"
	"github.com/mpapenbr/gps-extractor/pkg/model"
)

type (
	// Result is a successfully encoded extraction.
	Result struct {
		Table       *model.Table
		Summary     model.Summary
		Data        []byte
		FileName    string
		ContentType string
	}
)

// Extract decodes data and extracts the location fixes.
// It returns extract.ErrDecode for invalid JSON and extract.ErrEmptyResult if the
// document contains no location events.
func Extract(ctx context.Context, data []byte) (*model.Table, error) {
	l := log.GetFromContext(ctx).Named("service")
	doc, err := extract.ParseDocument(data)
	if err != nil {
		l.Warn("could not decode document", log.Int("bytes", len(data)), log.ErrorField(err))
		return nil, err
	}
	table := extract.Extract(doc)
	if table.Empty() {
		l.Info("no location events found")
		return table, extract.ErrEmptyResult
	}
	l.Debug("extracted fixes", log.Int("rows", len(table.Rows)))
	return table, nil
}

// Encode writes t in the given format. Encoding errors are reported as extract.ErrDecode.
func Encode(t *model.Table, format encode.Format) (*Result, error) {
	enc, err := encode.ForFormat(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, t); err != nil {
		return nil, fmt.Errorf("%w: %w", extract.ErrDecode, err)
	}
	return &Result{
		Table:       t,
		Summary:     extract.Summarize(t),
		Data:        buf.Bytes(),
		FileName:    enc.FileName(),
		ContentType: enc.ContentType(),
	}, nil
}

// Convert runs the complete pipeline: decode, extract, encode.
func Convert(ctx context.Context, data []byte, format encode.Format) (*Result, error) {
	table, err := Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	res, err := Encode(table, format)
	if err != nil {
		return nil, err
	}
	log.GetFromContext(ctx).Named("service").Info("conversion done",
		log.String("format", string(format)),
		log.Int("rows", res.Summary.Rows),
		log.Int("bytes", len(res.Data)),
		log.Float("maxSpeedKph", res.Summary.MaxSpeedKph))
	return res, nil
}
