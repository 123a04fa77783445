package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Discord: DiscordConfig{
			Prefix: "-",
		},
		Proxy: ProxyConfig{
			Listen:     ":8080",
			OriginBase: "https://cdn.discordapp.com/attachments",
		},
	}
}
