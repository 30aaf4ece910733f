package transport

// State 连接状态
//
//	Disconnected --connect ok--> Connected
//	Connected --send failed--> Reconnecting
//	Reconnecting --reconnect ok--> Connected
//	Reconnecting --reconnect failed--> Reconnecting（由调用方决定是否终止）
type State int32

const (
	Disconnected State = iota
	Connected
	Reconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
