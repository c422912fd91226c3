package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"strconv"
	"time"

	"github.com/996BC/btcwire/p2p"
	"github.com/996BC/btcwire/params"
	"github.com/996BC/btcwire/utils"
)

// legacy transaction encoding only, so witness support is not advertised
const services = params.NodeNetwork

const (
	defaultDialTimeout      = 10
	defaultHandshakeTimeout = 30
)

type config struct {
	Network          string `json:"network"`
	Peer             string `json:"peer"`
	UserAgent        string `json:"user_agent"`
	StartHeight      int32  `json:"start_height"`
	Relay            bool   `json:"relay"`
	LogLevel         string `json:"log_level"`
	DataPath         string `json:"data_path"`
	DialTimeout      int    `json:"dial_timeout"`
	HandshakeTimeout int    `json:"handshake_timeout"`

	net      params.Net
	logLevel int
}

func parseConfig(cf string) (*config, error) {
	if len(cf) == 0 {
		return nil, fmt.Errorf("miss config file")
	}

	if err := utils.AccessCheck(cf); err != nil {
		return nil, err
	}

	jsonContent, err := ioutil.ReadFile(cf)
	if err != nil {
		return nil, fmt.Errorf("read config file failed:%v", err)
	}

	conf := &config{}
	if err := json.Unmarshal(jsonContent, conf); err != nil {
		return nil, fmt.Errorf("config parse failed:%v", err)
	}

	if err := verifyConfig(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func verifyConfig(c *config) error {
	var err error

	if c.net, err = params.ParseNet(c.Network); err != nil {
		return err
	}

	// a bare ip dials the default port of the network
	if ip := net.ParseIP(c.Peer); ip != nil {
		c.Peer = net.JoinHostPort(ip.String(), strconv.Itoa(params.DefaultPort(c.net)))
	}
	if ip, _ := utils.ParseIPPort(c.Peer); ip == nil {
		return fmt.Errorf("invalid peer address:%s", c.Peer)
	}

	if len(c.UserAgent) == 0 {
		c.UserAgent = params.DefaultUserAgent
	}

	if c.StartHeight < 0 {
		return fmt.Errorf("invalid start height:%d", c.StartHeight)
	}

	if len(c.LogLevel) == 0 {
		c.logLevel = utils.LogInfoLevel
	} else if c.logLevel, err = utils.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	if err := utils.AccessCheck(c.DataPath); err != nil {
		return err
	}

	if c.DialTimeout < 0 || c.HandshakeTimeout < 0 {
		return fmt.Errorf("invalid timeout")
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}

	return nil
}

func (c *config) peerConfig() *p2p.Config {
	return &p2p.Config{
		Net:              c.net,
		Services:         services,
		UserAgent:        c.UserAgent,
		StartHeight:      c.StartHeight,
		Relay:            c.Relay,
		DialTimeout:      time.Duration(c.DialTimeout) * time.Second,
		HandshakeTimeout: time.Duration(c.HandshakeTimeout) * time.Second,
	}
}
