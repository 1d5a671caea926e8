package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/channels"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/customers"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/logger"
)

// seedFile is the fixture document: customers with their agents, channels,
// and knowledge bases. Seeding is idempotent; existing rows are matched by
// name (channels by platform and workspace) and left untouched.
type seedFile struct {
	Customers []seedCustomer `yaml:"customers"`
}

type seedCustomer struct {
	Name       string          `yaml:"name"`
	ChatAgents []seedChatAgent `yaml:"chat_agents"`
	Knowledges []seedKnowledge `yaml:"knowledges"`
}

type seedChatAgent struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	SystemPrompt string            `yaml:"system_prompt"`
	ChatChannels []seedChatChannel `yaml:"chat_channels"`
}

type seedChatChannel struct {
	Platform    string `yaml:"platform"`
	WorkspaceID string `yaml:"workspace_id"`
}

type seedKnowledge struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert customers, agents, channels, and knowledges from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			var doc seedFile
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parse fixture: %w", err)
			}

			ctx := cmd.Context()
			pool, err := db.Open(ctx, cfg.Postgres)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()

			return runSeed(ctx, logger.L, sqlc.New(pool), cfg, doc)
		},
	}
	cmd.Flags().StringP("file", "f", "seed.yaml", "fixture file to load")
	return cmd
}

// runSeed applies the fixture through the domain services so validation
// stays in one place. No cache is wired; the services read straight from
// the database.
func runSeed(ctx context.Context, log *slog.Logger, queries *sqlc.Queries, cfg config.Config, doc seedFile) error {
	customerService := customers.NewService(log, queries, nil, cfg.Cache)
	agentService := agents.NewService(log, queries, nil, cfg.Cache)
	channelService := channels.NewService(log, queries, nil, cfg.Cache)
	knowledgeService := knowledge.NewService(log, queries, nil)

	for _, c := range doc.Customers {
		customer, err := ensureCustomer(ctx, customerService, c.Name)
		if err != nil {
			return fmt.Errorf("customer %q: %w", c.Name, err)
		}

		for _, a := range c.ChatAgents {
			agent, err := ensureAgent(ctx, agentService, customer.ID, a)
			if err != nil {
				return fmt.Errorf("chat agent %q: %w", a.Name, err)
			}
			for _, ch := range a.ChatChannels {
				if err := ensureChannel(ctx, log, channelService, agent.ID, ch); err != nil {
					return fmt.Errorf("chat channel %s/%s: %w", ch.Platform, ch.WorkspaceID, err)
				}
			}
		}

		for _, k := range c.Knowledges {
			if err := ensureKnowledge(ctx, knowledgeService, customer.ID, k); err != nil {
				return fmt.Errorf("knowledge %q: %w", k.Name, err)
			}
		}
	}

	log.Info("seed complete", slog.Int("customers", len(doc.Customers)))
	return nil
}

func ensureCustomer(ctx context.Context, service *customers.Service, name string) (customers.Customer, error) {
	name = strings.TrimSpace(name)
	const page = 100
	for offset := int32(0); ; offset += page {
		items, err := service.List(ctx, page, offset)
		if err != nil {
			return customers.Customer{}, err
		}
		for _, item := range items {
			if item.Name == name {
				return item, nil
			}
		}
		if len(items) < page {
			break
		}
	}
	return service.Create(ctx, customers.CreateCustomerRequest{Name: name})
}

func ensureAgent(ctx context.Context, service *agents.Service, customerID string, seed seedChatAgent) (agents.ChatAgent, error) {
	name := strings.TrimSpace(seed.Name)
	existing, err := service.ListByCustomer(ctx, customerID)
	if err != nil {
		return agents.ChatAgent{}, err
	}
	for _, item := range existing {
		if item.Name == name {
			return item, nil
		}
	}
	return service.Create(ctx, agents.CreateChatAgentRequest{
		CustomerID:   customerID,
		Name:         name,
		Description:  seed.Description,
		SystemPrompt: seed.SystemPrompt,
	})
}

func ensureChannel(ctx context.Context, log *slog.Logger, service *channels.Service, agentID string, seed seedChatChannel) error {
	existing, err := service.Resolve(ctx, seed.Platform, seed.WorkspaceID)
	if err == nil {
		if existing.ChatAgentID != agentID {
			log.Warn("workspace already bound to another agent",
				slog.String("platform", seed.Platform),
				slog.String("workspace_id", seed.WorkspaceID),
			)
		}
		return nil
	}
	if !errors.Is(err, channels.ErrChannelNotFound) {
		return err
	}
	_, err = service.Create(ctx, channels.CreateChatChannelRequest{
		ChatAgentID: agentID,
		Platform:    seed.Platform,
		WorkspaceID: seed.WorkspaceID,
	})
	return err
}

func ensureKnowledge(ctx context.Context, service *knowledge.Service, customerID string, seed seedKnowledge) error {
	name := strings.TrimSpace(seed.Name)
	existing, err := service.ListByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	for _, item := range existing {
		if item.Name == name {
			return nil
		}
	}
	_, err = service.Create(ctx, knowledge.CreateKnowledgeRequest{
		CustomerID:  customerID,
		Name:        name,
		Description: seed.Description,
	})
	return err
}
