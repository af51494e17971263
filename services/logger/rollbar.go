package logsvc

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	kitlog "github.com/go-kit/log"
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/sgpa/core"
	"github.com/trezcool/sgpa/core/user"
)

var exitFunc = os.Exit // mockable

// NewSink returns a logfmt logger writing to w, tagged with the service name.
func NewSink(w io.Writer, svc string) kitlog.Logger {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	return kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "svc", svc)
}

// RollbarLogger reports to Rollbar and mirrors every entry to a local sink.
type RollbarLogger struct {
	sink kitlog.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(sink kitlog.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)
	return &RollbarLogger{sink: sink}
}

// expected fmt: msg | error, map[string]interface{}, user.User
// The user is attached to the item through its context, never through rollbar's global person.
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+2)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		if usr, ok := arg.(user.User); ok {
			if !usrSet { // only one User per report
				person := &rollbar.Person{Id: usr.ID, Username: usr.Name, Email: usr.Email}
				newArgs = append(newArgs, rollbar.NewPersonContext(context.Background(), person))
				usrSet = true
			}
			continue
		}
		newArgs = append(newArgs, arg)
	}
	return newArgs
}

// keyvals flattens args into logfmt pairs; the user is logged by ID only.
func keyvals(level, msg string, args []interface{}) []interface{} {
	kvs := []interface{}{"level", level, "msg", msg}
	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			kvs = append(kvs, "user", a.ID)
		case error:
			kvs = append(kvs, "err", a.Error())
		case map[string]interface{}:
			keys := make([]string, 0, len(a))
			for k := range a {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				kvs = append(kvs, k, a[k])
			}
		default:
			kvs = append(kvs, "extra", fmt.Sprintf("%+v", a))
		}
	}
	return kvs
}

func (l *RollbarLogger) print(level, msg string, args []interface{}) {
	_ = l.sink.Log(keyvals(level, msg, args)...)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print("debug", msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("info", msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("warn", msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("error", msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print("fatal", msg, args)
	rollbar.Close()
	exitFunc(1)
}
