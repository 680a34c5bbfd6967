/*
Copyright 2025 The nagare media authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

type App struct {
	Name      string     `mapstructure:"name"`
	Functions []Function `mapstructure:"functions,omitempty"`

	HTTP *HTTPApp `mapstructure:"http,omitempty"`

	Resolve *ResolveApp `mapstructure:"resolve,omitempty"`
}

type HTTPApp struct {
	Host string `mapstructure:"host,omitempty"`
	Path string `mapstructure:"path,omitempty"`
	Auth *Auth  `mapstructure:"auth,omitempty"`
	CORS *CORS  `mapstructure:"cors,omitempty"`
}

type Auth struct {
	Basic *BasicAuth `mapstructure:"basic,omitempty"`
}

type BasicAuth struct {
	Users []User `mapstructure:"users"`
}

type User struct {
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

type CORS struct {
	AllowOrigins     string `mapstructure:"AllowOrigins,omitempty"`
	AllowMethods     string `mapstructure:"AllowMethods,omitempty"`
	AllowHeaders     string `mapstructure:"AllowHeaders,omitempty"`
	AllowCredentials bool   `mapstructure:"AllowCredentials,omitempty"`
	ExposeHeaders    string `mapstructure:"ExposeHeaders,omitempty"`
	MaxAge           int    `mapstructure:"MaxAge,omitempty"`
}

type ResolveApp struct {
	ResolverRef Reference `mapstructure:"resolverRef"`
}
