package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/fileutils"
	"github.com/go-pkgz/lgr"
	flags "github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/rev-tone/app/config"
	"github.com/umputun/rev-tone/app/rater"
	"github.com/umputun/rev-tone/app/storage"
	"github.com/umputun/rev-tone/app/storage/engine"
	"github.com/umputun/rev-tone/app/webapi"
	"github.com/umputun/rev-tone/lib/review"
	"github.com/umputun/rev-tone/lib/revtone"
)

type options struct {
	InstanceID  string `long:"gid" env:"GID" default:"rev-tone" description:"instance id, separates data of multiple instances sharing the same db"`
	DataBaseURL string `long:"db" env:"DB" description:"database url for settings, samples mirror and prediction log, e.g. sqlite:///tmp/rev-tone.db"`
	Config      string `long:"config" env:"CONFIG" description:"yaml config file"`
	ConfigDB    bool   `long:"config-db" env:"CONFIG_DB" description:"load and save settings in the database"`

	Samples       string        `long:"samples" env:"SAMPLES" default:"data/reviews-samples.txt" description:"preset review samples file"`
	Dynamic       string        `long:"dynamic" env:"DYNAMIC" description:"user-added review samples file"`
	WatchInterval time.Duration `long:"watch-interval" env:"WATCH_INTERVAL" default:"5s" description:"sample files watch interval in server mode, 0 disables watching"`

	Alpha     float64 `long:"alpha" env:"ALPHA" default:"1.0" description:"additive smoothing factor"`
	NoBigrams bool    `long:"no-bigrams" env:"NO_BIGRAMS" description:"unigram features only, disable adjacent word pairs"`
	StopWords string  `long:"stopwords" env:"STOPWORDS" description:"extra stop words file, one word per line"`
	Workers   int     `long:"workers" env:"WORKERS" default:"4" description:"parallel classification workers"`

	JSON           bool   `long:"json" env:"JSON" description:"print predictions as json, one object per line"`
	Eval           string `long:"eval" env:"EVAL" description:"evaluate the labeled file against the trained model and print the report"`
	Stats          bool   `long:"stats" env:"STATS" description:"print dataset stats for the inputs instead of classifying"`
	MaxPredictions int    `long:"max-predictions" env:"MAX_PREDICTIONS" default:"5000" description:"prediction log entries to keep in the db, 0 keeps everything"`

	StorageTimeout time.Duration `long:"storage-timeout" env:"STORAGE_TIMEOUT" default:"0" description:"timeout for db setup operations, 0 means no timeout"`

	Server struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable web api server"`
		ListenAddr string `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string `long:"auth" env:"AUTH" description:"basic auth password for user \"rev-tone\", disabled if empty"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated prediction log"`
		FileName   string `long:"file" env:"FILE" default:"rev-tone.log" description:"location of the prediction log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Positional struct {
		Inputs []string `positional-arg-name:"INPUT" description:"input files with review lines to classify, stdin if not given"`
	} `positional-args:"yes"`

	Version bool `long:"version" description:"print version and exit"`
	Dbg     bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.EnvNamespace = "REVTONE"
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	if opts.Version {
		fmt.Printf("rev-tone %s\n", revision)
		return
	}

	setupLog(opts.Dbg, opts.Server.AuthPasswd)
	log.Printf("[INFO] rev-tone %s", revision)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	settings, err := mergeSettings(opts, func(name string) bool {
		opt := p.FindOptionByLongName(name)
		return opt != nil && opt.IsSet()
	})
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Printf("[DEBUG] effective settings: %+v", settings)

	if err := execute(ctx, opts, settings); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// execute runs the rev-tone flow: optional db-backed stores, classifier
// trained from the sample files and one of the modes on top - web api server,
// evaluation, dataset stats or the default line-by-line classification.
func execute(ctx context.Context, opts options, settings *config.Settings) error {
	var predictions *storage.Predictions
	var settingsStore *config.Store

	if settings.Transient.DataBaseURL != "" {
		dbCtx := ctx
		if settings.Transient.StorageTimeout > 0 {
			var cancel context.CancelFunc
			dbCtx, cancel = context.WithTimeout(ctx, settings.Transient.StorageTimeout)
			defer cancel()
		}

		db, err := engine.New(dbCtx, settings.Transient.DataBaseURL, settings.InstanceID)
		if err != nil {
			return fmt.Errorf("can't make db engine, %w", err)
		}
		defer db.Close()

		if settings.Transient.ConfigDB {
			if settingsStore, err = config.NewStore(dbCtx, db); err != nil {
				return fmt.Errorf("can't make settings store, %w", err)
			}
			if settings, err = reconcileSettings(dbCtx, settingsStore, settings); err != nil {
				return err
			}
		}

		if predictions, err = storage.NewPredictions(dbCtx, db); err != nil {
			return fmt.Errorf("can't make predictions store, %w", err)
		}

		reviews, err := storage.NewReviews(dbCtx, db)
		if err != nil {
			return fmt.Errorf("can't make reviews store, %w", err)
		}
		if err := mirrorSamples(dbCtx, reviews, settings); err != nil {
			log.Printf("[WARN] can't mirror samples to db: %v", err)
		}
	}

	classifier, err := makeClassifier(settings, opts.StopWords)
	if err != nil {
		return fmt.Errorf("can't make classifier, %w", err)
	}

	watchDelay := time.Duration(0)
	if settings.Server.Enabled {
		// one-shot modes don't care about file changes
		watchDelay = time.Duration(settings.Files.WatchInterval) * time.Second
	}
	toneRater := rater.NewRater(ctx, classifier, rater.Params{
		SamplesFile: settings.Files.SamplesPath,
		DynamicFile: settings.Files.DynamicPath,
		WatchDelay:  watchDelay,
		Workers:     settings.Workers,
	})
	if err := toneRater.ReloadSamples(); err != nil {
		return fmt.Errorf("can't load samples, %w", err)
	}

	if settings.Server.Enabled {
		srvConfig := webapi.Config{
			Version:     revision,
			ListenAddr:  settings.Server.ListenAddr,
			Engine:      classifier,
			Rater:       toneRater,
			AppSettings: settings,
			AuthPasswd:  settings.Server.AuthPasswd,
			Dbg:         settings.Transient.Dbg,
		}
		// assigned conditionally to keep nil interface checks inside handlers valid
		if predictions != nil {
			srvConfig.Predictions = predictions
		}
		if settingsStore != nil {
			srvConfig.SettingsStore = settingsStore
		}

		if predictions != nil && opts.MaxPredictions > 0 {
			go cleanupPredictions(ctx, predictions, opts.MaxPredictions, time.Hour)
		}

		srv := webapi.NewServer(srvConfig)
		log.Printf("[INFO] server mode on %s", settings.Server.ListenAddr)
		return srv.Run(ctx)
	}

	if opts.Eval != "" {
		return runEval(ctx, toneRater, opts.Eval)
	}

	if opts.Stats {
		return runStats(toneRater, opts.Positional.Inputs)
	}

	return classifyInputs(ctx, opts, settings, toneRater, predictions)
}

// mergeSettings builds the effective settings: defaults, then the yaml file
// when given, then explicitly set flags on top. The isSet callback reports if
// a flag came from the command line or the environment.
func mergeSettings(opts options, isSet func(name string) bool) (*config.Settings, error) {
	res := config.New()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, fmt.Errorf("can't load settings file, %w", err)
		}
		res = loaded
	}

	if isSet("gid") || res.InstanceID == "" {
		res.InstanceID = opts.InstanceID
	}
	if isSet("samples") || res.Files.SamplesPath == "" {
		res.Files.SamplesPath = opts.Samples
	}
	if isSet("dynamic") {
		res.Files.DynamicPath = opts.Dynamic
	}
	if isSet("watch-interval") {
		res.Files.WatchInterval = int(opts.WatchInterval.Seconds())
	}
	if isSet("alpha") {
		res.Classifier.Alpha = opts.Alpha
	}
	if isSet("no-bigrams") {
		res.Classifier.Bigrams = !opts.NoBigrams
	}
	if isSet("workers") {
		res.Workers = opts.Workers
	}
	if isSet("server.enabled") {
		res.Server.Enabled = opts.Server.Enabled
	}
	if isSet("server.listen") || res.Server.ListenAddr == "" {
		res.Server.ListenAddr = opts.Server.ListenAddr
	}
	if isSet("server.auth") {
		res.Server.AuthPasswd = opts.Server.AuthPasswd
	}
	if isSet("logger.enabled") {
		res.Logger.Enabled = opts.Logger.Enabled
	}
	if isSet("logger.file") || res.Logger.FileName == "" {
		res.Logger.FileName = opts.Logger.FileName
	}
	if isSet("logger.max-size") || res.Logger.MaxSize == "" {
		res.Logger.MaxSize = opts.Logger.MaxSize
	}
	if isSet("logger.max-backups") || res.Logger.MaxBackups == 0 {
		res.Logger.MaxBackups = opts.Logger.MaxBackups
	}

	// sample files are used by the watcher long after startup, keep them stable
	res.Files.SamplesPath = expandPath(res.Files.SamplesPath)
	res.Files.DynamicPath = expandPath(res.Files.DynamicPath)

	// transient fields always come from the command line
	res.Transient.DataBaseURL = opts.DataBaseURL
	res.Transient.ConfigDB = opts.ConfigDB
	res.Transient.StorageTimeout = opts.StorageTimeout
	res.Transient.Dbg = opts.Dbg
	return res, nil
}

// reconcileSettings makes the db store the settings authority: an existing
// record replaces the merged settings, the first run seeds the store from
// them. Transient fields stay as given on the command line.
func reconcileSettings(ctx context.Context, store *config.Store, settings *config.Settings) (*config.Settings, error) {
	exists, err := store.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't check db settings, %w", err)
	}

	if !exists {
		if err := store.Save(ctx, settings); err != nil {
			return nil, fmt.Errorf("can't seed db settings, %w", err)
		}
		log.Printf("[INFO] settings saved to db")
		return settings, nil
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't load db settings, %w", err)
	}
	loaded.Transient = settings.Transient
	log.Printf("[INFO] settings loaded from db")
	return loaded, nil
}

// makeClassifier creates the naive bayes engine with stop words merged from
// the settings and the optional extra words file.
func makeClassifier(settings *config.Settings, stopWordsFile string) (*revtone.Classifier, error) {
	res := revtone.NewClassifier(revtone.Config{
		Alpha:     settings.Classifier.Alpha,
		NoBigrams: !settings.Classifier.Bigrams,
	})

	words := settings.Classifier.StopWords
	if stopWordsFile != "" {
		if !fileutils.IsFile(stopWordsFile) {
			return nil, fmt.Errorf("stop words file %q not found", stopWordsFile)
		}
		data, err := os.ReadFile(stopWordsFile) //nolint:gosec // the path is a cli argument
		if err != nil {
			return nil, fmt.Errorf("can't read stop words file, %w", err)
		}
		words = append(words, strings.Fields(string(data))...)
	}
	if len(words) > 0 {
		res.WithStopWords(words...)
		log.Printf("[DEBUG] extra stop words: %d", len(words))
	}

	log.Printf("[DEBUG] classifier config: %+v", res.Config)
	return res, nil
}

// mirrorSamples keeps a queryable copy of the sample files in the reviews
// store. Files remain the source of truth, the db copy of each origin is
// replaced on every start.
func mirrorSamples(ctx context.Context, store *storage.Reviews, settings *config.Settings) error {
	mirror := func(path string, origin storage.ReviewOrigin) error {
		if path == "" || !fileutils.IsFile(path) {
			return nil
		}
		fh, err := os.Open(path) //nolint:gosec // the path comes from the config
		if err != nil {
			return fmt.Errorf("can't open %s, %w", path, err)
		}
		defer fh.Close()

		stats, err := store.Import(ctx, origin, fh, true)
		if err != nil {
			return fmt.Errorf("can't import %s, %w", path, err)
		}
		log.Printf("[DEBUG] mirrored %s to db, %s", path, stats)
		return nil
	}

	if err := mirror(settings.Files.SamplesPath, storage.ReviewOriginPreset); err != nil {
		return err
	}
	return mirror(settings.Files.DynamicPath, storage.ReviewOriginUser)
}

// runEval grades a labeled file with the trained model and prints the report
func runEval(ctx context.Context, toneRater *rater.Rater, file string) error {
	fh, err := os.Open(file) //nolint:gosec // the path is a cli argument
	if err != nil {
		return fmt.Errorf("can't open evaluation file, %w", err)
	}
	defer fh.Close()

	res, err := toneRater.Evaluate(ctx, fh)
	if err != nil {
		return fmt.Errorf("evaluation failed, %w", err)
	}
	fmt.Println(res.String())
	return nil
}

// runStats scans labeled inputs and prints the dataset report
func runStats(toneRater *rater.Rater, files []string) error {
	inputs, err := openInputs(files)
	if err != nil {
		return err
	}
	defer closeInputs(inputs)

	readers := make([]io.Reader, 0, len(inputs))
	for _, in := range inputs {
		readers = append(readers, in)
	}

	res, err := toneRater.DatasetStats(io.MultiReader(readers...))
	if err != nil {
		return fmt.Errorf("can't collect dataset stats, %w", err)
	}
	fmt.Println(res.String())
	return nil
}

// classifyInputs reads review lines from the inputs and prints one result per
// line to stdout, a bare label by default or a json object with --json. Each
// result also goes to the rotated prediction log and the db store when those
// are enabled.
func classifyInputs(ctx context.Context, opts options, settings *config.Settings,
	toneRater *rater.Rater, predictions *storage.Predictions) error {

	logWr, err := makePredictionLogWriter(settings)
	if err != nil {
		return fmt.Errorf("can't make prediction log writer, %w", err)
	}
	defer logWr.Close()
	predLogger := makePredictionLogger(logWr)

	inputs, err := openInputs(opts.Positional.Inputs)
	if err != nil {
		return err
	}
	defer closeInputs(inputs)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	const batchSize = 1000
	batch := make([]string, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		preds, err := toneRater.ClassifyBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("classification failed, %w", err)
		}
		for i, pred := range preds {
			if err := printPrediction(out, pred, opts.JSON); err != nil {
				return fmt.Errorf("can't write result, %w", err)
			}
			predLogger(batch[i], pred)
			if predictions != nil {
				entry := storage.PredictionEntry{
					Text:        review.Text(batch[i]),
					Label:       pred.Label,
					Probability: pred.Probability,
					Details:     pred.Details,
					Source:      "cli",
				}
				if _, err := predictions.Write(ctx, entry); err != nil {
					log.Printf("[WARN] can't store prediction, %v", err)
				}
			}
		}
		batch = batch[:0]
		return nil
	}

	total := 0
	for _, in := range inputs {
		scanner := bufio.NewScanner(in)
		buf := make([]byte, 64*1024) // 64KB max line length, same as the stores accept
		scanner.Buffer(buf, 64*1024)
		for scanner.Scan() {
			batch = append(batch, scanner.Text())
			total++
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("can't read input, %w", err)
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if predictions != nil && opts.MaxPredictions > 0 {
		if err := predictions.Cleanup(ctx, opts.MaxPredictions); err != nil {
			log.Printf("[WARN] predictions cleanup failed, %v", err)
		}
	}

	log.Printf("[INFO] classified %d lines", total)
	return nil
}

// printPrediction writes a single result line, a bare label or a json object
func printPrediction(w io.Writer, pred review.Prediction, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, string(pred.Label))
		return err
	}
	data, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("can't marshal prediction, %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// makePredictionLogger creates a logger to keep the record of classified
// reviews, it writes json lines to the provided writer
func makePredictionLogger(wr io.Writer) func(line string, pred review.Prediction) {
	return func(line string, pred review.Prediction) {
		text := strings.TrimSpace(strings.ReplaceAll(review.Text(line), "\n", " "))
		m := struct {
			TimeStamp   string  `json:"ts"`
			Text        string  `json:"text"`
			Label       string  `json:"label"`
			Tone        string  `json:"tone"`
			Probability float64 `json:"probability"`
		}{
			TimeStamp:   time.Now().In(time.Local).Format(time.RFC3339),
			Text:        text,
			Label:       string(pred.Label),
			Tone:        pred.Label.Tone(),
			Probability: pred.Probability,
		}
		data, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(data, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	}
}

// makePredictionLogWriter creates a writer for the rotated prediction log.
// it parses the settings and makes lumberjack logger with rotation
func makePredictionLogWriter(settings *config.Settings) (accessLog io.WriteCloser, err error) {
	if !settings.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(settings.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] prediction log enabled for %s, max size %dM", settings.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   settings.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: settings.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// cleanupPredictions caps the predictions log in the db on a timer, deleting
// the oldest entries over the limit
func cleanupPredictions(ctx context.Context, store *storage.Predictions, maxKeep int, every time.Duration) {
	log.Printf("[DEBUG] predictions cleanup every %v, keeping %d", every, maxKeep)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DEBUG] predictions cleanup stopped")
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx, maxKeep); err != nil {
				log.Printf("[WARN] predictions cleanup failed, %v", err)
			}
		}
	}
}

// openInputs opens positional input files, stdin when none given
func openInputs(paths []string) ([]io.ReadCloser, error) {
	if len(paths) == 0 {
		return []io.ReadCloser{os.Stdin}, nil
	}
	res := make([]io.ReadCloser, 0, len(paths))
	for _, p := range paths {
		fh, err := os.Open(p) //nolint:gosec // the path is a cli argument
		if err != nil {
			closeInputs(res)
			return nil, fmt.Errorf("can't open input %s, %w", p, err)
		}
		res = append(res, fh)
	}
	return res, nil
}

func closeInputs(inputs []io.ReadCloser) {
	for _, in := range inputs {
		_ = in.Close()
	}
}

// expandPath expands ~ to the user home and makes the path absolute,
// on failure the path is returned as is
func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	res, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return res
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	// stdout is the classification output, keep the log on stderr
	logOpts = append(logOpts, lgr.Out(os.Stderr), lgr.Err(os.Stderr))

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
