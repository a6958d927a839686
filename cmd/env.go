package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-xmlfmt/xmlfmt"
	"github.com/spf13/afero"

	"github.com/lehigh-university-libraries/oai-jats/config"
	"github.com/lehigh-university-libraries/oai-jats/format"
	"github.com/lehigh-university-libraries/oai-jats/format/dublincore"
	"github.com/lehigh-university-libraries/oai-jats/format/jats"
	"github.com/lehigh-university-libraries/oai-jats/host"
	"github.com/lehigh-university-libraries/oai-jats/oai"
	"github.com/lehigh-university-libraries/oai-jats/record"
	"github.com/lehigh-university-libraries/oai-jats/settings"
)

// env is everything a command needs to answer requests for one site.
type env struct {
	cfg        *config.Config
	snapshot   *host.Snapshot
	settings   *settings.FileStore
	plugin     *jats.Plugin
	dispatcher *oai.Dispatcher
}

// loadEnv reads the configuration, the host snapshot and the plugin
// settings, and registers the JATS and Dublin Core formats.
func loadEnv() (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	osFs := afero.NewOsFs()
	snapshot, err := host.Load(osFs, cfg.HostFile)
	if err != nil {
		return nil, err
	}
	store, err := settings.Open(osFs, cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	router, err := jats.NewRouter(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	storage := host.NewStorage(afero.NewBasePathFs(osFs, cfg.FilesDir), snapshot)
	f := jats.New(jats.Services{
		Files:     snapshot,
		Storage:   storage,
		Genres:    snapshot,
		Directory: snapshot,
	}, store, router, jats.WithDocumentFinder(jats.Template{}))

	plugin := jats.NewPlugin(f, store)
	registry := format.NewRegistry()
	plugin.Register(registry)
	registry.Register(&dublincore.Format{Links: func(journalPath, bestID string) string {
		return router.ArticleURL(journalPath, bestID, 0)
	}})

	return &env{
		cfg:      cfg,
		snapshot: snapshot,
		settings: store,
		plugin:   plugin,
		dispatcher: &oai.Dispatcher{
			RepositoryID: cfg.RepositoryID,
			BaseURL:      strings.TrimSuffix(cfg.BaseURL, "/") + "/index.php/index/oai",
			Source:       snapshot,
			Registry:     registry,
			Enabled: func(prefix string, contextID int) bool {
				return prefix != jats.MetadataPrefix || plugin.Enabled(contextID)
			},
			Concurrency: cfg.Concurrency,
		},
	}, nil
}

// parseArticleID accepts either an article ID or an OAI identifier.
func (e *env) parseArticleID(arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return id, nil
	}
	return e.dispatcher.ParseIdentifier(arg)
}

// parseContextID accepts a journal ID or a journal path.
func (e *env) parseContextID(arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if _, ok := e.snapshot.Journal(id); !ok {
			return 0, fmt.Errorf("unknown journal: %d", id)
		}
		return id, nil
	}
	for _, j := range e.snapshot.Journals {
		if j.Path == arg {
			return j.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown journal: %s", arg)
}

var (
	actorRoles      []string
	actorUserID     int
	actorRemoteAddr string
	actorRemoteHost string
	pretty          bool
)

func actorFromFlags() *record.Actor {
	if len(actorRoles) == 0 && actorUserID == 0 && actorRemoteAddr == "" && actorRemoteHost == "" {
		return nil
	}
	actor := &record.Actor{
		UserID:     actorUserID,
		RemoteAddr: actorRemoteAddr,
		RemoteHost: actorRemoteHost,
	}
	for _, r := range actorRoles {
		actor.Roles = append(actor.Roles, record.Role(strings.TrimSpace(r)))
	}
	return actor
}

func writeResponse(w io.Writer, resp *oai.Response) error {
	out, err := oai.Marshal(resp)
	if err != nil {
		return err
	}
	return writeXML(w, string(out))
}

func writeXML(w io.Writer, s string) error {
	if pretty {
		s = strings.TrimLeft(xmlfmt.FormatXML(s, "", "  "), "\r\n")
	}
	_, err := fmt.Fprintln(w, s)
	return err
}
