package listener

import (
	"net"
	"sync/atomic"
)

// Connection 是一次被接受的客户端连接，只存活一个请求/响应周期。
// 它包装 net.Conn，并原子地统计读写字节数。
type Connection struct {
	net.Conn
	ID string

	read    *atomic.Uint64
	written *atomic.Uint64
}

func newConnection(conn net.Conn, id string, read, written *atomic.Uint64) *Connection {
	return &Connection{
		Conn:    conn,
		ID:      id,
		read:    read,
		written: written,
	}
}

// Read 从底层连接读取数据，并增加下行流量计数。
func (c *Connection) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.read.Add(uint64(n))
	}
	return n, err
}

// Write 将数据写入底层连接，并增加上行流量计数。
func (c *Connection) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.written.Add(uint64(n))
	}
	return n, err
}
