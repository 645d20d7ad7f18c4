package webpdf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/tidwall/gjson"
)

// eventLog turns CDP events of one tab into journal lines. handle runs on
// chromedp's event goroutine and must not block or issue CDP commands.
type eventLog struct {
	journal *Journal

	mu        sync.Mutex
	requests  map[network.RequestID]string
	documents map[cdp.LoaderID]string
}

func newEventLog(j *Journal) *eventLog {
	return &eventLog{
		journal:   j,
		requests:  make(map[network.RequestID]string),
		documents: make(map[cdp.LoaderID]string),
	}
}

func (l *eventLog) handle(ev any) {
	switch ev := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		l.journal.Add(consoleLine(ev))

	case *runtime.EventExceptionThrown:
		l.journal.Add(pageErrorLine(ev.ExceptionDetails))

	case *network.EventRequestWillBeSent:
		if ev.Request != nil {
			l.mu.Lock()
			l.requests[ev.RequestID] = ev.Request.URL
			l.mu.Unlock()
		}

	case *network.EventResponseReceived:
		if ev.Type == network.ResourceTypeDocument && ev.Response != nil {
			l.mu.Lock()
			if _, ok := l.documents[ev.LoaderID]; !ok {
				l.documents[ev.LoaderID] = fmt.Sprintf("[response] %d %s", ev.Response.Status, ev.Response.URL)
			}
			l.mu.Unlock()
		}

	case *network.EventLoadingFinished:
		l.mu.Lock()
		delete(l.requests, ev.RequestID)
		l.mu.Unlock()

	case *network.EventLoadingFailed:
		l.mu.Lock()
		u := l.requests[ev.RequestID]
		delete(l.requests, ev.RequestID)
		l.mu.Unlock()
		l.journal.Add(requestFailedLine(u, ev.ErrorText))
	}
}

// documentResponse returns the response line recorded for the document
// loaded by loader.
func (l *eventLog) documentResponse(loader cdp.LoaderID) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line, ok := l.documents[loader]
	return line, ok
}

func consoleLine(ev *runtime.EventConsoleAPICalled) string {
	parts := make([]string, 0, len(ev.Args))
	for _, arg := range ev.Args {
		if part := formatRemoteObject(arg); part != "" {
			parts = append(parts, part)
		}
	}
	return fmt.Sprintf("[console:%s] %s", ev.Type, strings.Join(parts, " "))
}

func pageErrorLine(details *runtime.ExceptionDetails) string {
	if details == nil {
		return "[pageerror] unknown error"
	}
	msg := details.Text
	if details.Exception != nil && details.Exception.Description != "" {
		msg, _, _ = strings.Cut(details.Exception.Description, "\n")
	}
	return "[pageerror] " + msg
}

func requestFailedLine(url, errorText string) string {
	if url == "" {
		url = "<unknown>"
	}
	return fmt.Sprintf("[requestfailed] %s -> %s", url, errorText)
}

// formatRemoteObject renders a console argument the way DevTools prints
// it: primitives by value, everything else by description.
func formatRemoteObject(obj *runtime.RemoteObject) string {
	if obj == nil {
		return ""
	}
	if obj.UnserializableValue != "" {
		return string(obj.UnserializableValue)
	}
	if len(obj.Value) > 0 {
		v := gjson.ParseBytes(obj.Value)
		switch v.Type {
		case gjson.String:
			return v.Str
		case gjson.Null:
			return "null"
		default:
			if v.Raw != "" {
				return v.Raw
			}
		}
	}
	switch {
	case obj.Description != "":
		return obj.Description
	case obj.Type == runtime.TypeUndefined:
		return "undefined"
	case obj.ClassName != "":
		return "[" + obj.ClassName + "]"
	case obj.Type != "":
		return "[" + string(obj.Type) + "]"
	}
	return ""
}
