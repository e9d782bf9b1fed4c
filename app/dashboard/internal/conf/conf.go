package conf

type Bootstrap struct {
	Server *Server
	Data   *Data
	Search *Search
	Log    *Log
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
	History  *History
}

type Database struct {
	Driver string
	Source string
}

type History struct {
	Limit  int32 `json:"limit"`
	Retain int32 `json:"retain"`
}

type Search struct {
	Source      string       `json:"source"`
	Dajiala     *Dajiala     `json:"dajiala"`
	Mock        *Mock        `json:"mock"`
	Concurrency *Concurrency `json:"concurrency"`
}

type Dajiala struct {
	Endpoint string `json:"endpoint"`
	ApiKey   string `json:"api_key"`
	Timeout  int32  `json:"timeout"`
}

type Mock struct {
	Dataset string `json:"dataset"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
