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

package controllers

import (
	"context"
	"fmt"

	"github.com/nagare-media/play/pkg/config/v1alpha1"
	"github.com/nagare-media/play/pkg/player"
)

type playController struct {
	resolvers         map[string]*player.Resolver
	serverControllers []Controller
}

func NewPlayController(cfg v1alpha1.Config) (*playController, error) {
	// create resolvers
	resolvers := make(map[string]*player.Resolver)
	for _, resCfg := range cfg.Resolvers {
		name := resCfg.Name
		if _, ok := resolvers[name]; ok {
			return nil, fmt.Errorf("NewPlayController: multiple resolvers with the same name '%s' configured", name)
		}

		res, err := player.New(resCfg)
		if err != nil {
			return nil, err
		}
		resolvers[name] = res
	}

	// create server controllers
	serverCtrl := make([]Controller, len(cfg.Servers))
	serverNameExists := make(map[string]bool)
	for i, srvCfg := range cfg.Servers {
		name := srvCfg.Name
		if serverNameExists[name] {
			return nil, fmt.Errorf("NewPlayController: multiple servers with the same name '%s' configured", name)
		}

		ctrl, err := NewServerController(srvCfg)
		if err != nil {
			return nil, err
		}
		serverCtrl[i] = ctrl
		serverNameExists[name] = true
	}

	return &playController{
		resolvers:         resolvers,
		serverControllers: serverCtrl,
	}, nil
}

func (c *playController) Exec(ctx context.Context, execCtx *ExecCtx) error {
	log := execCtx.Logger().Named("play")
	execCtx = execCtx.
		WithPlayCtrl(c).
		WithLogger(log)

	log.Info("start play controller")
	if len(c.serverControllers) == 0 {
		log.Warn("no server configured; nothing to do")
		return nil
	}
	if len(c.resolvers) == 0 {
		log.Warn("no resolver configured; sources will pass through")
	}

	log.Info("start sub-controllers")
	subControllerGroup := NewGroupController(GroupControllerOpts{}, c.serverControllers...)
	err := subControllerGroup.Exec(ctx, execCtx)

	log.Info("shutdown play controller")
	return err
}
