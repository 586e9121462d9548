// Package responder drains one connection and writes the canned page back.
package responder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"simple_server/internal/shared/types"
)

const (
	// Body is the only page this server ever returns.
	Body = "<h1>Hello, World!</h1>"

	// ReadLimit 是单次读取的上限，读取缓冲区容量为 ReadLimit+1。
	ReadLimit = 1023
)

// Format 按固定的头部顺序构造完整的 HTTP/1.1 响应。
func Format(body string) []byte {
	contentLength := strconv.Itoa(len(body))

	var b bytes.Buffer
	b.Grow(96 + len(body))
	b.WriteString("HTTP/1.1 200 OK\r\n")
	b.WriteString("Content-Type: text/html\r\n")
	b.WriteString("Content-Length: " + contentLength + "\r\n")
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.Bytes()
}

// Result records what happened on one connection. None of it reaches the client.
type Result struct {
	ReadBytes    int
	ReadErr      error
	WrittenBytes int
	WriteErr     error
}

// Err joins the read and write failures, nil if both succeeded.
func (r Result) Err() error {
	return errors.Join(r.ReadErr, r.WriteErr)
}

type Responder struct {
	body         string
	readLimit    int
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New(conf types.ServerConf) *Responder {
	readLimit := conf.ReadBufferSize
	if readLimit <= 0 {
		readLimit = ReadLimit
	}
	return &Responder{
		body:         Body,
		readLimit:    readLimit,
		readTimeout:  time.Duration(conf.ReadTimeout) * time.Second,
		writeTimeout: time.Duration(conf.WriteTimeout) * time.Second,
	}
}

// Handle performs exactly one read and one write. The caller closes conn.
func (r *Responder) Handle(conn net.Conn) Result {
	var res Result

	// 请求内容不解析，直接丢弃
	buf := make([]byte, r.readLimit+1)
	if r.readTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(r.readTimeout))
	}
	n, err := conn.Read(buf[:r.readLimit])
	res.ReadBytes = n
	if err != nil && !errors.Is(err, io.EOF) {
		res.ReadErr = fmt.Errorf("read: %w", err)
	}

	response := Format(r.body)
	if r.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(r.writeTimeout))
	}
	// 只写一次，短写不重试
	n, err = conn.Write(response)
	res.WrittenBytes = n
	switch {
	case err != nil:
		res.WriteErr = fmt.Errorf("write: %w", err)
	case n < len(response):
		res.WriteErr = fmt.Errorf("write: %w", io.ErrShortWrite)
	}
	return res
}
