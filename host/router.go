package host

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/gorilla/mux"
	"github.com/vsariola/pianoroll"
	"github.com/vsariola/pianoroll/gomidi"
	"github.com/vsariola/pianoroll/transport"
)

type (
	summaryData struct {
		BPM     float64
		Running bool
		Players []summaryPlayer
	}

	summaryPlayer struct {
		Index    int
		Roll     pianoroll.Roll
		Keys     []string
		Playhead string
	}
)

var summaryTemplate = template.Must(template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(
	`pianoroll host, {{ .BPM }} bpm, {{ if .Running }}running{{ else }}stopped{{ end }}
{{- range .Players }}
player {{ printf "%02d" .Index }}: {{ len .Roll.Events }} events, {{ .Roll.Bars }} bars of {{ .Roll.Signature.Beats }}/{{ .Roll.Signature.Divs }}, at {{ .Playhead }}
  keys: {{ .Keys | join " " | default "none" | trunc 200 }}
{{- end }}
`))

// Router returns the HTTP interface of the server:
//
//	GET  /                  plain text summary of the players
//	GET  /{idx}/player      snapshot of a player as JSON
//	PUT  /{idx}/player      a transport.Request as JSON
//	GET  /{idx}/roll        the whole roll as JSON
//	GET  /{idx}/player.mid  the roll as a Standard MIDI File
//	POST /time              a transport.TimeRequest as JSON
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsHeaders, logRequests)
	router.HandleFunc("/", s.handleRoot).Methods("GET")
	router.HandleFunc("/time", s.handleTime).Methods("POST", "OPTIONS")
	router.HandleFunc("/{idx:[0-9]+}/player", s.handleSnapshot).Methods("GET")
	router.HandleFunc("/{idx:[0-9]+}/player", s.handleRequest).Methods("PUT", "OPTIONS")
	router.HandleFunc("/{idx:[0-9]+}/roll", s.handleRoll).Methods("GET")
	router.HandleFunc("/{idx:[0-9]+}/player.mid", s.handleMIDI).Methods("GET")
	return router
}

func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+transport.ClientHeader)
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			client := r.Header.Get(transport.ClientHeader)
			if client == "" {
				client = r.RemoteAddr
			}
			log.Printf("host: %s %s from %s", r.Method, r.URL.Path, client)
		}
		next.ServeHTTP(w, r)
	})
}

func playerIndex(r *http.Request) int {
	idx, err := strconv.Atoi(mux.Vars(r)["idx"])
	if err != nil {
		return -1
	}
	return idx
}

func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var violation *pianoroll.InvariantViolation
	switch {
	case errors.Is(err, transport.ErrNoPlayer):
		status = http.StatusNotFound
	case errors.As(err, &violation):
		status = http.StatusConflict
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("host: could not encode response: %v", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	data := summaryData{BPM: s.bpm, Running: s.Running()}
	for idx := range MaxPlayers {
		roll, _ := s.Roll(idx)
		snap, _ := s.Snapshot(idx)
		if len(roll.Events) == 0 && idx > 0 {
			continue
		}
		p := summaryPlayer{Index: idx, Roll: roll, Playhead: snap.Playhead.String()}
		for _, k := range roll.Keys {
			p.Keys = append(p.Keys, k.String())
		}
		data.Players = append(data.Players, p)
	}
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		http.Error(w, fmt.Sprintf("could not render summary: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Snapshot(playerIndex(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req transport.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON input: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.Apply(playerIndex(r), req); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	roll, err := s.Roll(playerIndex(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, roll)
}

func (s *Server) handleMIDI(w http.ResponseWriter, r *http.Request) {
	roll, err := s.Roll(playerIndex(r))
	if err != nil {
		httpError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := gomidi.Export(&buf, roll, s.bpm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=player%02d.mid", playerIndex(r)))
	w.Write(buf.Bytes())
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	var req transport.TimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON input: %v", err), http.StatusBadRequest)
		return
	}
	s.SetTime(req)
	w.WriteHeader(http.StatusNoContent)
}
