package config

import (
	"clubhouse/utils"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// ResultSnapshotMessage is one feed snapshot for one tournament, published
// by the polling job and consumed by the results writer.
type ResultSnapshotMessage struct {
	TournamentExternalId string      `json:"tournamentExternalId"`
	FetchedAt            time.Time   `json:"fetchedAt"`
	Status               string      `json:"status"`
	CurrentRound         int         `json:"currentRound"`
	Entries              []FeedEntry `json:"entries"`
}

// FeedEntry mirrors one golfer line of the feed leaderboard. Pointers stay
// nil for fields the feed did not report.
type FeedEntry struct {
	GolferExternalId string  `json:"golferExternalId"`
	GolferName       string  `json:"golferName"`
	Country          string  `json:"country"`
	ToPar            *int    `json:"toPar"`
	Strokes          *int    `json:"strokes"`
	Position         *int    `json:"position"`
	MadeCut          *bool   `json:"madeCut"`
	Withdrawn        bool    `json:"withdrawn"`
	RoundToPar       []int64 `json:"roundToPar"`
}

func topicName(tournamentId int) string {
	return fmt.Sprintf("result-changes-%d", tournamentId)
}

func CreateTopic(tournamentId int) error {
	broker := Env().KafkaBroker
	if broker == "" {
		return fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	topic := topicName(tournamentId)

	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return err
	}
	defer utils.Closer(conn)()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer utils.Closer(controllerConn)()

	topicConfig := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
		ConfigEntries: []kafka.ConfigEntry{
			{
				ConfigName:  "max.message.bytes",
				ConfigValue: "10000000",
			},
			{
				ConfigName:  "compression.type",
				ConfigValue: "zstd",
			},
			// results only matter until the pool is settled, keep a week
			{
				ConfigName:  "retention.ms",
				ConfigValue: "604800000",
			},
			{
				ConfigName:  "retention.bytes",
				ConfigValue: "-1",
			},
		},
	}

	return controllerConn.CreateTopics(topicConfig)
}

func GetWriter(tournamentId int) (*kafka.Writer, error) {
	broker := Env().KafkaBroker
	if broker == "" {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:          []string{broker},
		Topic:            topicName(tournamentId),
		CompressionCodec: kafka.Zstd.Codec(),
		BatchBytes:       1e7,
	}), nil
}

func GetReader(tournamentId int, consumerId int) (*kafka.Reader, error) {
	broker := Env().KafkaBroker
	if broker == "" {
		return nil, fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	topic := topicName(tournamentId)

	err := CreateTopic(tournamentId)
	if err != nil {
		return nil, err
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("%s-%d", topic, consumerId),
		MaxBytes:    1e7,
		StartOffset: kafka.FirstOffset,
	}), nil
}
