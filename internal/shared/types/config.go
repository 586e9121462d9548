package types

// ServerConf 包含监听与应答相关的配置
type ServerConf struct {
	BindAddress    string `ini:"bind_address"`
	Port           int    `ini:"port"`
	Backlog        int    `ini:"backlog"`
	ReadBufferSize int    `ini:"read_buffer_size"` // 单次读取上限 (字节)
	ReadTimeout    int    `ini:"read_timeout"`     // seconds, 0 disables
	WriteTimeout   int    `ini:"write_timeout"`    // seconds, 0 disables
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level  string `ini:"level"`
	Output string `ini:"output"` // "stdout" or "stderr"
}

// Config 是整个进程的统一配置结构体
type Config struct {
	ServerConf `ini:"server"`
	LogConf    `ini:"log"`
}
