package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/encode"
	"github.com/mpapenbr/gps-extractor/pkg/extract"
	"github.com/mpapenbr/gps-extractor/pkg/model"
	"github.com/mpapenbr/gps-extractor/pkg/service"
)

const uploadField = "file"

var noDataMessage = fmt.Sprintf("No %s events found in the JSON.", extract.LocationTag)

type (
	messageResponse struct {
		Error   string `json:"error,omitempty"`
		Warning string `json:"warning,omitempty"`
	}
	previewResponse struct {
		Columns []string      `json:"columns"`
		Rows    [][]any       `json:"rows"`
		Summary model.Summary `json:"summary"`
	}
)

// extract converts the uploaded document and returns it as attachment.
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	data, format, err := s.readUpload(w, r)
	if err != nil {
		s.writeUploadError(w, r, err)
		return
	}
	res, err := service.Convert(r.Context(), data, format)
	if err != nil {
		s.writeConvertError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		log.GetFromContext(r.Context()).Warn("could not write response", log.ErrorField(err))
	}
}

// preview returns the extracted rows as json.
func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.readUpload(w, r)
	if err != nil {
		s.writeUploadError(w, r, err)
		return
	}
	table, err := service.Extract(r.Context(), data)
	if err != nil {
		s.writeConvertError(w, r, err)
		return
	}
	rows := make([][]any, 0, len(table.Rows))
	for _, f := range table.Rows {
		rows = append(rows, f.Values())
	}
	body, err := json.Marshal(previewResponse{
		Columns: table.Columns,
		Rows:    rows,
		Summary: extract.Summarize(table),
	})
	if err != nil {
		s.writeConvertError(w, r, fmt.Errorf("%w: %w", extract.ErrDecode, err))
		return
	}
	writeBody(w, http.StatusOK, body)
}

// readUpload accepts either a multipart form with a "file" field or the raw
// document as request body. The format is taken from the "format" query or form value.
func (s *Server) readUpload(
	w http.ResponseWriter, r *http.Request,
) (data []byte, format encode.Format, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err = r.ParseMultipartForm(s.maxUploadSize); err != nil {
			return nil, "", err
		}
		file, _, ferr := r.FormFile(uploadField)
		if ferr != nil {
			return nil, "", ferr
		}
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			return nil, "", err
		}
	} else if data, err = io.ReadAll(r.Body); err != nil {
		return nil, "", err
	}

	format = s.defaultFormat
	if f := r.FormValue("format"); f != "" {
		if format, err = encode.ParseFormat(f); err != nil {
			return nil, "", err
		}
	}
	return data, format, nil
}

func (s *Server) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	l := log.GetFromContext(r.Context())
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		l.Warn("upload too large", log.Int64("limit", maxErr.Limit))
		writeJSON(w, http.StatusRequestEntityTooLarge,
			messageResponse{Error: fmt.Sprintf("file exceeds %d bytes", maxErr.Limit)})
		return
	}
	l.Warn("invalid upload", log.ErrorField(err))
	writeJSON(w, http.StatusBadRequest, messageResponse{Error: err.Error()})
}

func (s *Server) writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, extract.ErrEmptyResult):
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Warning: noDataMessage})
	default:
		log.GetFromContext(r.Context()).Warn("conversion failed", log.ErrorField(err))
		cause := strings.TrimPrefix(err.Error(), extract.ErrDecode.Error()+": ")
		writeJSON(w, http.StatusBadRequest,
			messageResponse{Error: "Error processing file: " + cause})
	}
}

// writeJSON marshals v before any header is sent. If v cannot be marshaled
// a 400 error response is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusBadRequest
		body, _ = json.Marshal(messageResponse{Error: "Error processing file: " + err.Error()})
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
