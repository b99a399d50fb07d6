package messaging

type ChangeTopic string

const (
	TrackingTopic ChangeTopic = "tracking"
)

// GlobalPrefix is the exchange prefix shared by every country.
const GlobalPrefix = "global"

func getName(prefix string, topic ChangeTopic) string {
	return prefix + "_" + string(topic)
}
