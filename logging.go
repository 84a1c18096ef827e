package rendervk

import (
	"io"
	"log"
	"os"
)

// Loggers is the three-file logging facility the wrapper layer and
// cmd/demo write through (the graph package does not log): one append-only file per
// severity, each also mirrored to the process's own stdout/stderr.
type Loggers struct {
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger

	files []*os.File
}

// NewLoggers opens info.log/warn.log/error.log (created if absent,
// appended to otherwise) in dir and wires up the three loggers.
func NewLoggers(dir string) (*Loggers, error) {
	open := func(name string) (*os.File, error) {
		return os.OpenFile(dir+"/"+name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	}

	infoFile, err := open("info.log")
	if err != nil {
		return nil, err
	}
	warnFile, err := open("warn.log")
	if err != nil {
		infoFile.Close()
		return nil, err
	}
	errorFile, err := open("error.log")
	if err != nil {
		infoFile.Close()
		warnFile.Close()
		return nil, err
	}

	l := &Loggers{
		Info:  log.New(io.MultiWriter(infoFile, os.Stdout), "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		Warn:  log.New(io.MultiWriter(warnFile, os.Stdout), "WARN: ", log.Ldate|log.Ltime|log.Lshortfile),
		Error: log.New(io.MultiWriter(errorFile, os.Stderr), "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		files: []*os.File{infoFile, warnFile, errorFile},
	}
	return l, nil
}

func (l *Loggers) Close() {
	for _, f := range l.files {
		f.Close()
	}
}
