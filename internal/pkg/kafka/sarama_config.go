package kafka

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/logger"
	"time"

	"github.com/IBM/sarama"
)

// newSaramaConfig 统一初始化生产者使用的 sarama.Config
func newSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	sarama.Logger = logger.NewSaramaLogger()

	c := sarama.NewConfig()
	c.ClientID = "inkwell"

	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}

	c.Producer.RequiredAcks = sarama.WaitForLocal
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.Retry.Max = 3
	c.Producer.Timeout = 5 * time.Second
	c.Producer.Partitioner = sarama.NewHashPartitioner

	return c
}
