package config

// Configfile represents the structure of the fmagic.yaml configuration file.
type Configfile struct {
	Python    string   `yaml:"python"`
	Driver    []string `yaml:"driver"`
	Backend   string   `yaml:"backend"`
	CacheRoot string   `yaml:"cacheRoot"`
	StorePath string   `yaml:"storePath"`
	Trace     bool     `yaml:"trace"`
}
