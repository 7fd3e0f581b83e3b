package redis

// Connection represents a connection with a redis style client
type Connection interface {
	Write([]byte) error
	SetPassword(string)
	GetPassword() string

	// client should keep its subscribing channels
	Subscribe(channel string)
	UnSubscribe(channel string)
	SubsCount() int
	GetChannels() []string

	// used for multi database
	GetDBIndex() int
	SelectDB(int)
}
