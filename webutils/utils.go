package webutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pkg/errors"
)

// max accepted upload size
const MaxUploadSize = 64 << 20

func WriteFileHeaders(w http.ResponseWriter, name string, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string, contentType string) {
	WriteFileHeaders(w, name, contentType)
	if _, err := io.Copy(w, in); err != nil {
		log.Printf("Error when writing file %q: %v", name, err)
	}
}

func WriteData(w http.ResponseWriter, data []byte, name string, contentType string) {
	WriteFile(w, bytes.NewReader(data), name, contentType)
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, errors.Wrapf(err, "Failed to marshal"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	WriteResult(w, res)
}

// ReadFormFile returns the content of the multipart form file formFileKey
// and the name the client sent it with.
func ReadFormFile(r *http.Request, formFileKey string) ([]byte, string, error) {
	if r.Method != http.MethodPost {
		return nil, "", errors.Errorf("Invalid http method %q", r.Method)
	}

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, "", errors.Wrapf(err, "Failed to parse form")
	}
	f, header, err := r.FormFile(formFileKey)
	if err != nil {
		return nil, "", errors.Wrapf(err, "Failed to get file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, "", errors.Wrapf(err, "Failed to read")
	}
	if len(data) > MaxUploadSize {
		return nil, "", errors.Errorf("File is larger than %d bytes", MaxUploadSize)
	}
	return data, header.Filename, nil
}

func WriteResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		log.Printf("Error when writing response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, err error) {
	WriteErrorCode(w, http.StatusInternalServerError, err)
}

func WriteErrorCode(w http.ResponseWriter, code int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		log.Printf("Error marshaling error '%v': %v", err, merr)
		http.Error(w, err.Error(), code)
		return
	}
	log.Printf("HERR: %v", string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteResult(w, data)
}
