package web

import (
	"bytes"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/anm_browser/anm"
	"github.com/mogaika/anm_browser/anm/anmconv"
	"github.com/mogaika/anm_browser/config"
	"github.com/mogaika/anm_browser/pack"
	"github.com/mogaika/anm_browser/pack/anmfile"
	"github.com/mogaika/anm_browser/status"
	"github.com/mogaika/anm_browser/utils"
	"github.com/mogaika/anm_browser/vfs"
	"github.com/mogaika/anm_browser/webutils"
)

var errNotFound = errors.New("not found")

// writeError maps lookup and input failures to 404 and 400.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, errNotFound):
		code = http.StatusNotFound
	case errors.Is(err, vfs.ErrInvalidName):
		code = http.StatusBadRequest
	}
	webutils.WriteErrorCode(w, code, err)
}

func loadFile(name string) (*anm.File, error) {
	start := time.Now()
	f, err := anmfile.Load(ServerDirectory, name)
	metrics.RecordCodecOperation("decode", err, time.Since(start))
	if err != nil {
		log.Printf("[web] Error getting file from pack: %v", err)
		if !errors.Is(err, os.ErrNotExist) {
			status.Error("Failed to load %s: %v", name, err)
		}
	}
	return f, err
}

func loadClass(name, key string) (*anm.Class, error) {
	f, err := loadFile(name)
	if err != nil {
		return nil, err
	}
	c := f.Class(key)
	if c == nil {
		return nil, errors.Wrapf(errNotFound, "class %q in '%s'", key, name)
	}
	return c, nil
}

// HandlerAjaxPack lists the files that have a registered format handler.
func HandlerAjaxPack(w http.ResponseWriter, r *http.Request) {
	files := make([]string, 0)
	for _, ext := range pack.Formats() {
		names, err := vfs.ListByExt(ServerDirectory, ext)
		if err != nil {
			writeError(w, err)
			return
		}
		files = append(files, names...)
	}
	sort.Strings(files)
	webutils.WriteJson(w, files)
}

func HandlerAjaxPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]

	start := time.Now()
	idx, err := anmfile.Index(ServerDirectory, file)
	metrics.RecordCodecOperation("index", err, time.Since(start))
	if err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteJson(w, idx)
}

func HandlerAjaxPackFileClass(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := loadClass(vars["file"], vars["class"])
	if err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteJson(w, c)
}

func HandlerAjaxPackFileAnimation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	c, err := loadClass(vars["file"], vars["class"])
	if err != nil {
		writeError(w, err)
		return
	}
	a := c.Animations.Get(vars["animation"])
	if a == nil {
		writeError(w, errors.Wrapf(errNotFound, "animation %q in class %q", vars["animation"], vars["class"]))
		return
	}
	webutils.WriteJson(w, a)
}

func HandlerDumpPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	f, err := vfs.DirectoryGetFile(ServerDirectory, file)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := vfs.ReadFile(f)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordFileSize("dump", len(data))

	etag := utils.ETag(utils.ContentHash(data))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	webutils.WriteData(w, data, file, anmconv.FormatANM.ContentType())
}

func HandlerDumpPackFileFormat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	file, formatName := vars["file"], vars["format"]

	var format anmconv.Format
	spew := strings.EqualFold(formatName, "spew")
	if !spew {
		var err error
		if format, err = anmconv.ParseFormat(formatName); err != nil {
			webutils.WriteErrorCode(w, http.StatusBadRequest, err)
			return
		}
	}

	f, err := loadFile(file)
	if err != nil {
		writeError(w, err)
		return
	}

	baseName := strings.TrimSuffix(file, filepath.Ext(file))
	if spew {
		webutils.WriteData(w, []byte(utils.SDump(f)), baseName+".txt", "text/plain; charset=utf-8")
		return
	}

	data, err := anmconv.Marshal(f, format)
	if err != nil {
		writeError(w, err)
		return
	}
	webutils.WriteData(w, data, baseName+format.Ext(), format.ContentType())
}

// uploadFormat picks the format from the form value, then from the uploaded
// file name, and falls back to json.
func uploadFormat(r *http.Request, uploadName string) (anmconv.Format, error) {
	if name := r.FormValue("format"); name != "" {
		return anmconv.ParseFormat(name)
	}
	if format, err := anmconv.FormatFromPath(uploadName); err == nil {
		return format, nil
	}
	return anmconv.FormatJSON, nil
}

func HandlerUploadPackFile(w http.ResponseWriter, r *http.Request) {
	targetFile := mux.Vars(r)["file"]
	if !strings.EqualFold(filepath.Ext(targetFile), anmfile.Ext) {
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Errorf("Target '%s' is not an %s file", targetFile, anmfile.Ext))
		return
	}

	data, uploadName, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Wrapf(err, "File stream getting error"))
		return
	}
	format, err := uploadFormat(r, uploadName)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	f, err := anmconv.Unmarshal(data, format)
	if err != nil {
		status.Error("Upload of %s rejected: %v", targetFile, err)
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	status.Progress(0.5, "Encoding %s", targetFile)
	var buf bytes.Buffer
	start := time.Now()
	err = f.EncodeLevel(&buf, config.GetCompressionLevel())
	metrics.RecordCodecOperation("encode", err, time.Since(start))
	if err != nil {
		status.Error("Encoding of %s failed: %v", targetFile, err)
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}
	metrics.RecordFileSize("upload", buf.Len())

	if err := pack.SaveInstance(ServerDirectory, targetFile, &buf); err != nil {
		status.Error("Saving of %s failed: %v", targetFile, err)
		writeError(w, errors.Wrapf(err, "Error when updating pack file"))
		return
	}

	status.Info("Saved %s (%d classes)", targetFile, len(f.Classes))
	webutils.WriteJson(w, map[string]interface{}{
		"file":    targetFile,
		"classes": f.ClassKeys(),
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerStatusWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Status websocket upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
