package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"letitbit/client"
)

func newKeyInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "key-info",
		Short: "Show usage statistics of the API key",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			info, err := s.client.KeyInfo(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), info)
		}),
	}
}

func newUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload files and print their links",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			protocol, err := client.ParseProtocol(string(s.cfg.Protocol))
			if err != nil {
				return err
			}

			results := make([]client.UploadResult, 0, len(args))
			for _, path := range args {
				st, err := os.Stat(path)
				if err != nil {
					return err
				}
				s.logger.Info().
					Str("file", filepath.Base(path)).
					Str("size", humanize.Bytes(uint64(st.Size()))).
					Msg("uploading")

				res, err := s.client.Upload(cmd.Context(), path, protocol)
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}
				results = append(results, res)
			}
			return writeJSON(cmd.OutOrStdout(), results)
		}),
	}
}

func newServersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List upload servers ordered by load",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			protocol, err := client.ParseProtocol(string(s.cfg.Protocol))
			if err != nil {
				return err
			}
			servers, err := s.client.FetchServerList(cmd.Context(), protocol)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), servers)
		}),
	}
}

func newCheckLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-link LINK",
		Short: "Check that a file is available",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ok, err := s.client.CheckLink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]bool{"available": ok})
		}),
	}
}

func newFileInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "file-info LINK",
		Short: "Show details of a file",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			info, err := s.client.FileInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if size := info.Int("size"); size > 0 {
				info["size_human"] = humanize.Bytes(uint64(size))
			}
			return writeJSON(cmd.OutOrStdout(), info)
		}),
	}
}

func newListCommand() *cobra.Command {
	var opts client.ListingOptions
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List files of a folder",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			files, err := s.client.FileListing(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), files)
		}),
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "files per page")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().Int64Var(&opts.Folder, "folder", 0, "folder id")
	return cmd
}

func newFoldersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			folders, err := s.client.Folders(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), folders)
		}),
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm UID...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			n, err := s.client.Delete(cmd.Context(), args...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int{"removed": n})
		}),
	}
}

func newRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv UID NAME",
		Short: "Rename a file",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			ok, err := s.client.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("rename of %s was refused", args[0])
			}
			return nil
		}),
	}
}

func newUserInfoCommand() *cobra.Command {
	var creds client.Credentials
	cmd := &cobra.Command{
		Use:   "user-info",
		Short: "Show account details",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			var c *client.Credentials
			if creds.Login != "" {
				c = &creds
			}
			info, err := s.client.UserInfo(cmd.Context(), c)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), info)
		}),
	}
	cmd.Flags().StringVar(&creds.Login, "login", "", "account login (default: key owner)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func newControllersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "controllers",
		Short: "List API controllers",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			controllers, err := s.client.ListControllers(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), controllers)
		}),
	}
}

func newMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods [CONTROLLER]",
		Short: "List API methods of one or all controllers",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			if len(args) == 1 {
				methods, err := s.client.ListMethods(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), methods)
			}
			all, err := s.client.AllMethods(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), all)
		}),
	}
}

func newConvertCommand() *cobra.Command {
	var login, password string
	cmd := &cobra.Command{
		Use:   "convert UID...",
		Short: "Request conversion of uploaded videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
			return s.client.ConvertVideos(cmd.Context(), args, login, password)
		}),
	}
	cmd.Flags().StringVar(&login, "login", "", "account login")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("login")
	cmd.MarkFlagRequired("password")
	return cmd
}
